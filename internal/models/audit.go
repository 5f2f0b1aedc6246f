package models

import "time"

// AuditEntry records one privileged or destructive action.
type AuditEntry struct {
	ID           string    `json:"id" bson:"-"`
	ActorID      string    `json:"actor_id" bson:"actor_id"`
	Action       string    `json:"action" bson:"action"`               // update, delete, set_role
	ResourceType string    `json:"resource_type" bson:"resource_type"` // blog, user
	ResourceID   string    `json:"resource_id" bson:"resource_id"`
	Details      string    `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
