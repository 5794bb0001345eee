package entity

import (
	"fmt"
	"math"
)

// DistanceEntry is the distance and travel time from one node to another
type DistanceEntry struct {
	ID                uint    `json:"id"`
	OriginNodeID      uint    `json:"origin_node_id"`
	DestinationNodeID uint    `json:"destination_node_id"`
	Distance          float64 `json:"distance"`
	TravelTime        float64 `json:"travel_time"`
	Audit
}

// Validate checks the pair and its measurements
func (d *DistanceEntry) Validate() error {
	if d.OriginNodeID == 0 {
		return NewValidationError("origin_node_id", "is required")
	}
	if d.DestinationNodeID == 0 {
		return NewValidationError("destination_node_id", "is required")
	}
	if d.OriginNodeID == d.DestinationNodeID {
		return NewValidationError("destination_node_id", "must differ from origin_node_id")
	}
	if math.IsNaN(d.Distance) || math.IsInf(d.Distance, 0) || d.Distance < 0 {
		return NewValidationError("distance", "must be a non-negative number")
	}
	if math.IsNaN(d.TravelTime) || math.IsInf(d.TravelTime, 0) || d.TravelTime < 0 {
		return NewValidationError("travel_time", "must be a non-negative number")
	}
	return nil
}

// Pair returns the ordered node pair of the entry
func (d *DistanceEntry) Pair() NodePair {
	return NodePair{Origin: d.OriginNodeID, Destination: d.DestinationNodeID}
}

// NodePair is an ordered (origin, destination) pair
type NodePair struct {
	Origin      uint `json:"origin_node_id"`
	Destination uint `json:"destination_node_id"`
}

func (p NodePair) String() string {
	return fmt.Sprintf("%d->%d", p.Origin, p.Destination)
}

// DistanceMatrix is the known part of the matrix among a set of nodes
type DistanceMatrix struct {
	NodeIDs []uint           `json:"node_ids"`
	Entries []*DistanceEntry `json:"entries"`
	Missing []NodePair       `json:"missing"`
}

// MaxMatrixNodes bounds the number of nodes of one matrix request
const MaxMatrixNodes = 200

// NewDistanceMatrix assembles the matrix among nodeIDs from the known entries
// and lists every ordered pair without an entry.
func NewDistanceMatrix(nodeIDs []uint, entries []*DistanceEntry) *DistanceMatrix {
	known := make(map[NodePair]struct{}, len(entries))
	for _, e := range entries {
		known[e.Pair()] = struct{}{}
	}

	missing := make([]NodePair, 0)
	for _, origin := range nodeIDs {
		for _, dest := range nodeIDs {
			if origin == dest {
				continue
			}
			p := NodePair{Origin: origin, Destination: dest}
			if _, ok := known[p]; !ok {
				missing = append(missing, p)
			}
		}
	}

	if entries == nil {
		entries = make([]*DistanceEntry, 0)
	}
	return &DistanceMatrix{NodeIDs: nodeIDs, Entries: entries, Missing: missing}
}

// Complete reports whether every ordered pair has an entry
func (m *DistanceMatrix) Complete() bool {
	return len(m.Missing) == 0
}

// UniqueNodeIDs removes duplicates and zero ids, keeping the first occurrence order
func UniqueNodeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
