package repository

import (
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// Models lists every persistence model, parents before children
func Models() []interface{} {
	return []interface{}{
		&Zones{},
		&Nodes{},
		&TimeWindows{},
		&DistanceMatrices{},
		&Transporters{},
		&Vehicles{},
		&Routes{},
		&VehicleAssignments{},
		&PricingRules{},
		&StartFees{},
	}
}

// Repositories bundles the relational repositories over one handle
type Repositories struct {
	Zones        repository.ZoneRepository
	Nodes        repository.NodeRepository
	TimeWindows  repository.TimeWindowRepository
	Distances    repository.DistanceMatrixRepository
	Transporters repository.TransporterRepository
	Vehicles     repository.VehicleRepository
	Routes       repository.RouteRepository
	Assignments  repository.VehicleAssignmentRepository
	Pricing      repository.PricingRuleRepository
	StartFees    repository.StartFeeRepository
}

// NewRepositories builds every GORM repository over db. Passing a
// transaction handle makes all of them write in that transaction.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Zones:        NewGormZoneRepository(db),
		Nodes:        NewGormNodeRepository(db),
		TimeWindows:  NewGormTimeWindowRepository(db),
		Distances:    NewGormDistanceMatrixRepository(db),
		Transporters: NewGormTransporterRepository(db),
		Vehicles:     NewGormVehicleRepository(db),
		Routes:       NewGormRouteRepository(db),
		Assignments:  NewGormVehicleAssignmentRepository(db),
		Pricing:      NewGormPricingRuleRepository(db),
		StartFees:    NewGormStartFeeRepository(db),
	}
}
