package models

type AuditLog struct {
	ID            int64   `json:"id"`
	ActorUserID   int     `json:"actor_user_id"`
	ActorName     *string `json:"actor_name,omitempty"`
	ActorEmail    *string `json:"actor_email,omitempty"`
	Action        string  `json:"action"`
	EntityName    string  `json:"entity_name"`
	EntityID      int64   `json:"entity_id"`
	OldValuesJSON string  `json:"old_values_json"`
	NewValuesJSON string  `json:"new_values_json"`
	IPAddress     string  `json:"ip_address"`
	CreatedAt     string  `json:"created_at"`
}
