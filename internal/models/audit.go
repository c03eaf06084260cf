package models

import (
	"encoding/json"
	"time"
)

// Audit actions.
const (
	AuditInventoryUpload = "INVENTORY_UPLOAD"
	AuditUserCreate      = "USER_CREATE"
)

// ActorSystem tags audit entries written without an interactive user.
const ActorSystem = "SYSTEM"

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID        int             `json:"id"`
	Action    string          `json:"action"`
	Actor     string          `json:"actor"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// IngestDetails is the audit payload of an INVENTORY_UPLOAD entry.
type IngestDetails struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}
