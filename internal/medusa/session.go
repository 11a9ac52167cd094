package medusa

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Session holds the cookies the backend issued for one browser session.
type Session struct {
	mu      sync.Mutex
	cookies map[string]string
	dirty   bool
}

// NewSession restores a session from the value produced by Encode.
func NewSession(encoded string) *Session {
	s := &Session{cookies: make(map[string]string)}
	if strings.TrimSpace(encoded) == "" {
		return s
	}
	parsed, err := http.ParseCookie(encoded)
	if err != nil {
		return s
	}
	for _, c := range parsed {
		s.cookies[c.Name] = c.Value
	}
	return s
}

// Header renders the Cookie request header value.
func (s *Session) Header() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.cookies))
	for name := range s.cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+s.cookies[name])
	}
	return strings.Join(parts, "; ")
}

// Encode returns a value suitable for NewSession.
func (s *Session) Encode() string {
	return s.Header()
}

// Capture applies Set-Cookie values from a backend response. Expired or empty
// cookies are removed.
func (s *Session) Capture(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, c := range cookies {
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now))
		if expired || c.Value == "" {
			if _, ok := s.cookies[c.Name]; ok {
				delete(s.cookies, c.Name)
				s.dirty = true
			}
			continue
		}
		if s.cookies[c.Name] != c.Value {
			s.cookies[c.Name] = c.Value
			s.dirty = true
		}
	}
}

// Clear drops every cookie.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cookies) > 0 {
		s.dirty = true
	}
	s.cookies = make(map[string]string)
}

// Empty reports whether the session carries no cookies.
func (s *Session) Empty() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cookies) == 0
}

// Changed reports whether cookies were added, replaced or removed since the session was built.
func (s *Session) Changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkSaved resets Changed once the session has been persisted.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}
