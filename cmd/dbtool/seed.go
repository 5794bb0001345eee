package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"napo-service/internal/domain/entity"
	"napo-service/internal/infrastructure/persistence"
	gormRepo "napo-service/internal/interface/repository"
	"napo-service/internal/usecase"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// seedActor is recorded as created_by on every seeded record
const seedActor = "dbtool"

// seedFile is the JSON document accepted by the seed command. Records refer
// to each other by their symbolic key instead of database ids.
type seedFile struct {
	Zones        []seedZone        `json:"zones"`
	Nodes        []seedNode        `json:"nodes"`
	Distances    []seedDistance    `json:"distances"`
	Transporters []seedTransporter `json:"transporters"`
	Vehicles     []seedVehicle     `json:"vehicles"`
	Routes       []seedRoute       `json:"routes"`
	PricingRules []seedPricingRule `json:"pricing_rules"`
}

type seedZone struct {
	Key         string   `json:"key"`
	ZoneName    string   `json:"zone_name"`
	PostalCodes []string `json:"postal_codes"`
}

type seedNode struct {
	Key         string       `json:"key"`
	NodeName    string       `json:"node_name"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	TimeWindows []seedWindow `json:"time_windows"`
}

type seedWindow struct {
	StartTime entity.ClockTime `json:"start_time"`
	EndTime   entity.ClockTime `json:"end_time"`
}

type seedDistance struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Distance    float64 `json:"distance"`
	TravelTime  float64 `json:"travel_time"`
}

type seedTransporter struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	BaseLatitude  *float64 `json:"base_latitude"`
	BaseLongitude *float64 `json:"base_longitude"`
	Zone          string   `json:"zone"`
}

type seedVehicle struct {
	Key         string   `json:"key"`
	VehicleName string   `json:"vehicle_name"`
	Capacity    *float64 `json:"capacity"`
	Transporter string   `json:"transporter"`
}

type seedRoute struct {
	Key         string   `json:"key"`
	RouteName   string   `json:"route_name"`
	Description string   `json:"description"`
	Zone        string   `json:"zone"`
	Vehicles    []string `json:"vehicles"`
}

type seedPricingRule struct {
	RuleName    string         `json:"rule_name"`
	Description string         `json:"description"`
	StartFees   []seedStartFee `json:"start_fees"`
}

type seedStartFee struct {
	LocationType string          `json:"location_type"`
	MaxFee       decimal.Decimal `json:"max_fee"`
}

type seedSummary struct {
	Zones, Nodes, TimeWindows, Distances        int
	Transporters, Vehicles, Routes, Assignments int
	PricingRules, StartFees                     int
}

func readSeedFile(r io.Reader) (*seedFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var data seedFile
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &data, nil
}

// keyring maps the symbolic keys of one kind of record to database ids
type keyring struct {
	kind string
	ids  map[string]uint
}

func newKeyring(kind string) *keyring {
	return &keyring{kind: kind, ids: make(map[string]uint)}
}

func (k *keyring) put(key string, id uint) error {
	if key == "" {
		return nil
	}
	if _, ok := k.ids[key]; ok {
		return fmt.Errorf("duplicate %s key %q", k.kind, key)
	}
	k.ids[key] = id
	return nil
}

func (k *keyring) get(key string) (uint, error) {
	id, ok := k.ids[key]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", k.kind, key)
	}
	return id, nil
}

// optional resolves a key that may be left empty
func (k *keyring) optional(key string) (*uint, error) {
	if key == "" {
		return nil, nil
	}
	id, err := k.get(key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// seed writes data through the planning services inside one transaction, so
// a file with any invalid record leaves the database untouched.
func seed(ctx context.Context, db *persistence.Database, data *seedFile, log logger.Logger) (*seedSummary, error) {
	ctx = usecase.WithActor(ctx, seedActor)
	summary := &seedSummary{}

	err := db.Transaction(ctx, func(tx *gorm.DB) error {
		s := newSeeder(tx, log)
		steps := []func(context.Context, *seedFile, *seedSummary) error{
			s.seedZones,
			s.seedNodes,
			s.seedDistances,
			s.seedTransporters,
			s.seedVehicles,
			s.seedRoutes,
			s.seedPricing,
		}
		for _, step := range steps {
			if err := step(ctx, data, summary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Seed data loaded",
		"zones", summary.Zones,
		"nodes", summary.Nodes,
		"transporters", summary.Transporters,
		"pricing_rules", summary.PricingRules,
	)
	return summary, nil
}

type seeder struct {
	zoneSvc *usecase.ZoneService
	network *usecase.NetworkService
	fleet   *usecase.FleetService
	pricing *usecase.PricingService

	zoneKeys        *keyring
	nodeKeys        *keyring
	transporterKeys *keyring
	vehicleKeys     *keyring
	routeKeys       *keyring
}

func newSeeder(tx *gorm.DB, log logger.Logger) *seeder {
	repos := gormRepo.NewRepositories(tx)
	audit := gormRepo.NewNoopAuditRepository()
	m := metrics.NewNopMetrics()
	return &seeder{
		zoneSvc:         usecase.NewZoneService(repos.Zones, audit, m, log),
		network:         usecase.NewNetworkService(repos.Nodes, repos.TimeWindows, repos.Distances, nil, audit, m, log),
		fleet:           usecase.NewFleetService(repos.Zones, repos.Transporters, repos.Vehicles, repos.Routes, repos.Assignments, audit, m, log),
		pricing:         usecase.NewPricingService(repos.Pricing, repos.StartFees, audit, m, log),
		zoneKeys:        newKeyring("zone"),
		nodeKeys:        newKeyring("node"),
		transporterKeys: newKeyring("transporter"),
		vehicleKeys:     newKeyring("vehicle"),
		routeKeys:       newKeyring("route"),
	}
}

func (s *seeder) seedZones(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, z := range data.Zones {
		zone := &entity.Zone{ZoneName: z.ZoneName, PostalCodes: z.PostalCodes}
		if err := s.zoneSvc.Create(ctx, zone); err != nil {
			return fmt.Errorf("zones[%d]: %w", i, err)
		}
		if err := s.zoneKeys.put(z.Key, zone.ID); err != nil {
			return fmt.Errorf("zones[%d]: %w", i, err)
		}
		sum.Zones++
	}
	return nil
}

func (s *seeder) seedNodes(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, n := range data.Nodes {
		node := &entity.Node{NodeName: n.NodeName, Latitude: n.Latitude, Longitude: n.Longitude}
		if err := s.network.CreateNode(ctx, node); err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
		if err := s.nodeKeys.put(n.Key, node.ID); err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
		sum.Nodes++

		for j, w := range n.TimeWindows {
			window := &entity.TimeWindow{NodeID: node.ID, StartTime: w.StartTime, EndTime: w.EndTime}
			if err := s.network.AddTimeWindow(ctx, window); err != nil {
				return fmt.Errorf("nodes[%d].time_windows[%d]: %w", i, j, err)
			}
			sum.TimeWindows++
		}
	}
	return nil
}

func (s *seeder) seedDistances(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, d := range data.Distances {
		origin, err := s.nodeKeys.get(d.Origin)
		if err != nil {
			return fmt.Errorf("distances[%d]: %w", i, err)
		}
		destination, err := s.nodeKeys.get(d.Destination)
		if err != nil {
			return fmt.Errorf("distances[%d]: %w", i, err)
		}
		entry := &entity.DistanceEntry{
			OriginNodeID:      origin,
			DestinationNodeID: destination,
			Distance:          d.Distance,
			TravelTime:        d.TravelTime,
		}
		if err := s.network.SetDistance(ctx, entry); err != nil {
			return fmt.Errorf("distances[%d]: %w", i, err)
		}
		sum.Distances++
	}
	return nil
}

func (s *seeder) seedTransporters(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, t := range data.Transporters {
		zoneID, err := s.zoneKeys.optional(t.Zone)
		if err != nil {
			return fmt.Errorf("transporters[%d]: %w", i, err)
		}
		transporter := &entity.Transporter{
			Name:          t.Name,
			BaseLatitude:  t.BaseLatitude,
			BaseLongitude: t.BaseLongitude,
			ZoneID:        zoneID,
		}
		if err := s.fleet.CreateTransporter(ctx, transporter); err != nil {
			return fmt.Errorf("transporters[%d]: %w", i, err)
		}
		if err := s.transporterKeys.put(t.Key, transporter.ID); err != nil {
			return fmt.Errorf("transporters[%d]: %w", i, err)
		}
		sum.Transporters++
	}
	return nil
}

func (s *seeder) seedVehicles(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, v := range data.Vehicles {
		transporterID, err := s.transporterKeys.optional(v.Transporter)
		if err != nil {
			return fmt.Errorf("vehicles[%d]: %w", i, err)
		}
		vehicle := &entity.Vehicle{VehicleName: v.VehicleName, Capacity: v.Capacity, TransporterID: transporterID}
		if err := s.fleet.CreateVehicle(ctx, vehicle); err != nil {
			return fmt.Errorf("vehicles[%d]: %w", i, err)
		}
		if err := s.vehicleKeys.put(v.Key, vehicle.ID); err != nil {
			return fmt.Errorf("vehicles[%d]: %w", i, err)
		}
		sum.Vehicles++
	}
	return nil
}

func (s *seeder) seedRoutes(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, r := range data.Routes {
		zoneID, err := s.zoneKeys.optional(r.Zone)
		if err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
		route := &entity.Route{RouteName: r.RouteName, Description: r.Description, ZoneID: zoneID}
		if err := s.fleet.CreateRoute(ctx, route); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
		if err := s.routeKeys.put(r.Key, route.ID); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
		sum.Routes++

		for _, key := range r.Vehicles {
			vehicleID, err := s.vehicleKeys.get(key)
			if err != nil {
				return fmt.Errorf("routes[%d]: %w", i, err)
			}
			if _, err := s.fleet.AssignVehicle(ctx, route.ID, vehicleID); err != nil {
				return fmt.Errorf("routes[%d]: assign %q: %w", i, key, err)
			}
			sum.Assignments++
		}
	}
	return nil
}

func (s *seeder) seedPricing(ctx context.Context, data *seedFile, sum *seedSummary) error {
	for i, p := range data.PricingRules {
		rule := &entity.PricingRule{RuleName: p.RuleName, Description: p.Description}
		if err := s.pricing.CreateRule(ctx, rule); err != nil {
			return fmt.Errorf("pricing_rules[%d]: %w", i, err)
		}
		sum.PricingRules++

		for j, f := range p.StartFees {
			fee := &entity.StartFee{PricingRuleID: rule.ID, LocationType: f.LocationType, MaxFee: f.MaxFee}
			if err := s.pricing.AddStartFee(ctx, fee); err != nil {
				return fmt.Errorf("pricing_rules[%d].start_fees[%d]: %w", i, j, err)
			}
			sum.StartFees++
		}
	}
	return nil
}
