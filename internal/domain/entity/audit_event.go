package entity

import "time"

// Audited entity names
const (
	EntityZone              = "zone"
	EntityNode              = "node"
	EntityTimeWindow        = "time_window"
	EntityDistance          = "distance"
	EntityRoute             = "route"
	EntityVehicle           = "vehicle"
	EntityTransporter       = "transporter"
	EntityVehicleAssignment = "vehicle_assignment"
	EntityPricingRule       = "pricing_rule"
	EntityStartFee          = "start_fee"
)

// Mutation actions
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionRestore = "restore"
)

var auditedEntities = map[string]struct{}{
	EntityZone: {}, EntityNode: {}, EntityTimeWindow: {}, EntityDistance: {},
	EntityRoute: {}, EntityVehicle: {}, EntityTransporter: {}, EntityVehicleAssignment: {},
	EntityPricingRule: {}, EntityStartFee: {},
}

// IsAuditedEntity reports whether name is a known entity name
func IsAuditedEntity(name string) bool {
	_, ok := auditedEntities[name]
	return ok
}

// AuditEvent records one mutation of a planning record
type AuditEvent struct {
	ID       string                 `json:"id" bson:"_id,omitempty"`
	Entity   string                 `json:"entity" bson:"entity"`
	EntityID uint                   `json:"entity_id" bson:"entity_id"`
	Action   string                 `json:"action" bson:"action"`
	Actor    string                 `json:"actor" bson:"actor"`
	At       time.Time              `json:"at" bson:"at"`
	Changes  map[string]interface{} `json:"changes,omitempty" bson:"changes,omitempty"`
}
