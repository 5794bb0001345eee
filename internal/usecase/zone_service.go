package usecase

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"
)

// ZoneService manages service areas
type ZoneService struct {
	zones repository.ZoneRepository
	recorder
}

// NewZoneService creates a new zone service
func NewZoneService(
	zones repository.ZoneRepository,
	audit repository.AuditRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *ZoneService {
	return &ZoneService{
		zones:    zones,
		recorder: newRecorder(audit, metrics, logger),
	}
}

func zoneChanges(z *entity.Zone) map[string]interface{} {
	return map[string]interface{}{
		"zone_name":    z.ZoneName,
		"postal_codes": z.PostalCodes,
	}
}

// Create validates and stores a new zone
func (s *ZoneService) Create(ctx context.Context, zone *entity.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	zone.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.zones.Create(ctx, zone); err != nil {
		return s.failed("zone.create", err)
	}
	s.mutated(ctx, entity.EntityZone, zone.ID, entity.ActionCreate, zoneChanges(zone))
	return nil
}

// Get returns one zone
func (s *ZoneService) Get(ctx context.Context, id uint, includeDeleted bool) (*entity.Zone, error) {
	zone, err := s.zones.GetByID(ctx, id, includeDeleted)
	return zone, s.failed("zone.get", err)
}

// List returns zones matching the filter
func (s *ZoneService) List(ctx context.Context, filter entity.ZoneFilter) ([]*entity.Zone, error) {
	zones, err := s.zones.List(ctx, filter)
	return zones, s.failed("zone.list", err)
}

// Update overwrites a live zone and returns its stored state
func (s *ZoneService) Update(ctx context.Context, zone *entity.Zone) (*entity.Zone, error) {
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	zone.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.zones.Update(ctx, zone); err != nil {
		return nil, s.failed("zone.update", err)
	}
	s.mutated(ctx, entity.EntityZone, zone.ID, entity.ActionUpdate, zoneChanges(zone))
	return s.Get(ctx, zone.ID, false)
}

// Delete soft-deletes a zone
func (s *ZoneService) Delete(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityZone, s.zones, id)
}

// Restore revives a soft-deleted zone
func (s *ZoneService) Restore(ctx context.Context, id uint) (*entity.Zone, error) {
	if err := s.restore(ctx, entity.EntityZone, s.zones, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, false)
}
