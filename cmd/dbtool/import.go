package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"napo-service/internal/domain/entity"
	"napo-service/internal/infrastructure/persistence"
	"napo-service/internal/usecase"
	"napo-service/pkg/logger"

	"gorm.io/gorm"
)

// csvTable is a parsed CSV file keyed by normalized header names
type csvTable struct {
	header  []string
	columns map[string]int
	rows    [][]string
	lines   []int
}

// normalizeHeader folds case and drops a BOM, spaces, dashes and underscores
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func readCSV(r io.Reader) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv file has no header row")
	}
	if err != nil {
		return nil, err
	}

	t := &csvTable{header: header, columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[normalizeHeader(h)] = i
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, record)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// column returns the index of the first alias present in the header, or -1
func (t *csvTable) column(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := t.columns[normalizeHeader(a)]; ok {
			return i
		}
	}
	return -1
}

func (t *csvTable) require(aliases ...string) (int, error) {
	if i := t.column(aliases...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("missing column %q, found %v", aliases[0], t.header)
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func optionalFloat(field, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, entity.NewValidationError(field, "must be a number")
	}
	return &f, nil
}

func optionalID(field, v string) (*uint, error) {
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return nil, entity.NewValidationError(field, "must be a positive id")
	}
	u := uint(id)
	return &u, nil
}

// splitPostalCodes accepts codes separated by semicolons, pipes or whitespace
func splitPostalCodes(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ';' || r == '|' || unicode.IsSpace(r)
	})
}

// csvImporter writes every row of a table and returns the number imported
type csvImporter func(ctx context.Context, s *seeder, t *csvTable) (int, error)

var csvImporters = map[string]csvImporter{
	"zones":        importZones,
	"nodes":        importNodes,
	"transporters": importTransporters,
}

func csvKinds() []string {
	kinds := make([]string, 0, len(csvImporters))
	for k := range csvImporters {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// importCSV writes the rows of one CSV table through the planning services
// inside one transaction; any invalid row leaves the database untouched.
func importCSV(ctx context.Context, db *persistence.Database, kind string, t *csvTable, log logger.Logger) (int, error) {
	importer, ok := csvImporters[kind]
	if !ok {
		return 0, fmt.Errorf("unknown import kind %q, want one of %v", kind, csvKinds())
	}

	ctx = usecase.WithActor(ctx, seedActor)
	var n int
	err := db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		n, err = importer(ctx, newSeeder(tx, log), t)
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Info("CSV data imported", "kind", kind, "rows", n)
	return n, nil
}

func importZones(ctx context.Context, s *seeder, t *csvTable) (int, error) {
	nameCol, err := t.require("zone_name", "zone", "name")
	if err != nil {
		return 0, err
	}
	codesCol := t.column("postal_codes", "postal_code", "codes")

	for i, row := range t.rows {
		zone := &entity.Zone{
			ZoneName:    cell(row, nameCol),
			PostalCodes: splitPostalCodes(cell(row, codesCol)),
		}
		if err := s.zoneSvc.Create(ctx, zone); err != nil {
			return 0, fmt.Errorf("line %d: %w", t.lines[i], err)
		}
	}
	return len(t.rows), nil
}

func importNodes(ctx context.Context, s *seeder, t *csvTable) (int, error) {
	nameCol, err := t.require("node_name", "node", "name")
	if err != nil {
		return 0, err
	}
	latCol := t.column("latitude", "lat")
	lonCol := t.column("longitude", "lon", "lng")

	for i, row := range t.rows {
		node, err := nodeFromRow(row, nameCol, latCol, lonCol)
		if err == nil {
			err = s.network.CreateNode(ctx, node)
		}
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", t.lines[i], err)
		}
	}
	return len(t.rows), nil
}

func nodeFromRow(row []string, nameCol, latCol, lonCol int) (*entity.Node, error) {
	lat, err := optionalFloat("latitude", cell(row, latCol))
	if err != nil {
		return nil, err
	}
	lon, err := optionalFloat("longitude", cell(row, lonCol))
	if err != nil {
		return nil, err
	}
	return &entity.Node{NodeName: cell(row, nameCol), Latitude: lat, Longitude: lon}, nil
}

func importTransporters(ctx context.Context, s *seeder, t *csvTable) (int, error) {
	nameCol, err := t.require("name", "transporter", "transporter_name")
	if err != nil {
		return 0, err
	}
	latCol := t.column("base_latitude", "latitude", "lat")
	lonCol := t.column("base_longitude", "longitude", "lon", "lng")
	zoneCol := t.column("zone_id", "zone")

	for i, row := range t.rows {
		transporter, err := transporterFromRow(row, nameCol, latCol, lonCol, zoneCol)
		if err == nil {
			err = s.fleet.CreateTransporter(ctx, transporter)
		}
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", t.lines[i], err)
		}
	}
	return len(t.rows), nil
}

func transporterFromRow(row []string, nameCol, latCol, lonCol, zoneCol int) (*entity.Transporter, error) {
	lat, err := optionalFloat("base_latitude", cell(row, latCol))
	if err != nil {
		return nil, err
	}
	lon, err := optionalFloat("base_longitude", cell(row, lonCol))
	if err != nil {
		return nil, err
	}
	zoneID, err := optionalID("zone_id", cell(row, zoneCol))
	if err != nil {
		return nil, err
	}
	return &entity.Transporter{
		Name:          cell(row, nameCol),
		BaseLatitude:  lat,
		BaseLongitude: lon,
		ZoneID:        zoneID,
	}, nil
}
