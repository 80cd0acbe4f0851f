package domain

import "time"

// Defaults applied to any profile field that was never set explicitly.
const (
	DefaultLanguage = "zh-CN"
	DefaultTheme    = "light"
	DefaultTimezone = "Asia/Shanghai"
)

// User is the durable account record and the source of truth for settings.
// ID is assigned by the database at creation and never changes.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Language     string    `json:"language_preference,omitempty"`
	Theme        string    `json:"theme,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	AvatarKey    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary returns the fields safe to echo back to the client after
// registration or login.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserSummary is the public projection of a User.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
