package domain

import "time"

// SessionTTL is the sliding expiry applied to cached sessions. A session
// rewrite (login, refresh, activity update) always renews the full window.
const SessionTTL = 7 * 24 * time.Hour

// ActivityDateLayout is the day-granularity format stored in
// Session.LastActivityDate, using the server's local calendar day.
const ActivityDateLayout = "2006-01-02"

// Session is the cached login record. It lives only in the key-value store
// under session:{id}; deleting it revokes the login regardless of the
// token's own expiry.
type Session struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name,omitempty"`
	LoginTime        string `json:"loginTime"`
	LastActivityDate string `json:"lastActivityDate,omitempty"`
}

// Settings is the cached, non-expiring materialized view of a user's
// personalization fields. Always derivable from the User row.
type Settings struct {
	UserID    int64  `json:"userId"`
	Language  string `json:"languagePreference"`
	Theme     string `json:"theme,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged
// when merged over the current record.
type SettingsPatch struct {
	Language  *string
	Theme     *string
	Timezone  *string
	AvatarURL *string
}

// Merge applies the patch over s and returns the result.
func (s Settings) Merge(p SettingsPatch) Settings {
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.AvatarURL != nil {
		s.AvatarURL = *p.AvatarURL
	}
	return s
}

// SettingsFromUser builds the cached view from the durable record, filling
// defaults for any field the user never set.
func SettingsFromUser(u *User) Settings {
	s := Settings{
		UserID:    u.ID,
		Language:  u.Language,
		Theme:     u.Theme,
		Timezone:  u.Timezone,
		AvatarURL: u.AvatarURL,
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}
	return s
}
