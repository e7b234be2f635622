package domain

import (
	"strings"
	"time"
)

// SessionCookieName is the cookie the backend uses to carry the session id.
const SessionCookieName = "session"

// Cookie is one stored credential cookie.
type Cookie struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Path      string    `json:"path,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the cookie must no longer be sent. Empty values count
// as expired because the backend clears cookies by overwriting them.
func (c Cookie) Expired(reference time.Time) bool {
	if strings.Trim(c.Value, `"`) == "" {
		return true
	}
	if c.ExpiresAt.IsZero() {
		return false
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !c.ExpiresAt.After(reference)
}

// Session is the client-side cookie jar for one profile.
type Session struct {
	ID        string    `json:"id"`
	Cookies   []Cookie  `json:"cookies"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Live returns the cookies that should accompany the next request.
func (s *Session) Live(reference time.Time) []Cookie {
	if s == nil {
		return nil
	}
	live := make([]Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if !c.Expired(reference) {
			live = append(live, c)
		}
	}
	return live
}

// Merge applies cookies received from the backend: newer values replace older
// ones with the same name, expired ones are dropped.
func (s *Session) Merge(received []Cookie, reference time.Time) {
	for _, c := range received {
		kept := s.Cookies[:0]
		for _, existing := range s.Cookies {
			if existing.Name != c.Name {
				kept = append(kept, existing)
			}
		}
		s.Cookies = kept
		if !c.Expired(reference) {
			s.Cookies = append(s.Cookies, c)
		}
	}
	s.UpdatedAt = reference
}

// Empty reports whether the jar holds no usable cookie.
func (s *Session) Empty(reference time.Time) bool {
	return len(s.Live(reference)) == 0
}
