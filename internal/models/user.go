package models

type User struct {
	ID                 int     `json:"id"`
	FullName           string  `json:"full_name"`
	Email              string  `json:"email"`
	Phone              *string `json:"phone,omitempty"`
	Address            *string `json:"address,omitempty"`
	AvatarURL          *string `json:"avatar_url,omitempty"`
	IsActive           bool    `json:"is_active"`
	ForcePasswordReset bool    `json:"force_password_reset"`
	Roles              []string `json:"roles,omitempty"`
	CreatedAt          string  `json:"created_at,omitempty"`
}
