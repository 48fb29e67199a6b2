// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Entity kinds carried in moderation events.
const (
	KindInventory      = "inventory"
	KindClassification = "classification"
)

// ModerationDecidedEvent is published whenever an admin resolves a pending
// record. It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type ModerationDecidedEvent struct {
	Kind       string `json:"kind"` // "inventory" or "classification"
	RecordID   uint64 `json:"record_id"`
	Label      string `json:"label"` // "Make Model" or the classification name
	Decision   string `json:"decision"`
	ApproverID uint64 `json:"approver_id"`
	DecidedAt  string `json:"decided_at"`
}
