package repository

import "context"

// SoftDeleter hides and revives records without physically removing them
type SoftDeleter interface {
	SoftDelete(ctx context.Context, id uint, actor string) error
	Restore(ctx context.Context, id uint, actor string) error
}
