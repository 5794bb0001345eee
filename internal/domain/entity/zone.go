package entity

import "strings"

// Zone represents a service area, described by the postal codes it covers
type Zone struct {
	ID          uint     `json:"id"`
	ZoneName    string   `json:"zone_name"`
	PostalCodes []string `json:"postal_codes"`
	Audit
}

// ZoneFilter narrows zone listings
type ZoneFilter struct {
	ListFilter
	PostalCode string
}

// Validate normalizes the zone and checks its fields
func (z *Zone) Validate() error {
	z.ZoneName = strings.TrimSpace(z.ZoneName)
	if z.ZoneName == "" {
		return NewValidationError("zone_name", "is required")
	}

	seen := make(map[string]struct{}, len(z.PostalCodes))
	codes := make([]string, 0, len(z.PostalCodes))
	for _, code := range z.PostalCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			return NewValidationError("postal_codes", "must not contain empty values")
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	z.PostalCodes = codes
	return nil
}

// Covers reports whether the zone contains the postal code
func (z *Zone) Covers(postalCode string) bool {
	postalCode = strings.TrimSpace(postalCode)
	for _, code := range z.PostalCodes {
		if code == postalCode {
			return true
		}
	}
	return false
}
