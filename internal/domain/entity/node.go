package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Node represents a location in the planning network
type Node struct {
	ID          uint          `json:"id"`
	NodeName    string        `json:"node_name"`
	Latitude    *float64      `json:"latitude"`
	Longitude   *float64      `json:"longitude"`
	TimeWindows []*TimeWindow `json:"time_windows,omitempty"`
	Audit
}

// Validate normalizes the node and checks its fields
func (n *Node) Validate() error {
	n.NodeName = strings.TrimSpace(n.NodeName)
	if n.NodeName == "" {
		return NewValidationError("node_name", "is required")
	}
	return validateCoordinates("latitude", "longitude", n.Latitude, n.Longitude)
}

// TimeWindow is an interval of the day during which a node can be served
type TimeWindow struct {
	ID        uint      `json:"id"`
	NodeID    uint      `json:"node_id"`
	StartTime ClockTime `json:"start_time"`
	EndTime   ClockTime `json:"end_time"`
	Audit
}

// Validate checks that the window is a non-empty interval of one day
func (w *TimeWindow) Validate() error {
	if w.NodeID == 0 {
		return NewValidationError("node_id", "is required")
	}
	if !w.StartTime.Valid() {
		return NewValidationError("start_time", "must be within one day")
	}
	if !w.EndTime.Valid() {
		return NewValidationError("end_time", "must be within one day")
	}
	if w.StartTime >= w.EndTime {
		return NewValidationError("end_time", "must be after start_time")
	}
	return nil
}

// Contains reports whether the clock time falls inside the window
func (w *TimeWindow) Contains(t ClockTime) bool {
	return t >= w.StartTime && t < w.EndTime
}

// ClockTime is a time of day in seconds since midnight
type ClockTime int

const secondsPerDay = 24 * 60 * 60

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClockTime parses HH:MM or HH:MM:SS
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, NewValidationError("time", "%q is not a time of day (HH:MM or HH:MM:SS)", s)
}

// NewClockTime builds a clock time from its parts
func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

// Valid reports whether the value lies within one day
func (c ClockTime) Valid() bool {
	return c >= 0 && c < secondsPerDay
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// MarshalJSON encodes the clock time as "HH:MM:SS"
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts "HH:MM" or "HH:MM:SS"
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewValidationError("time", "must be a string")
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
