// Package flash carries one-shot notices across redirects using a signed
// cookie session. A notice added while handling one request is popped by
// whichever handler serves the follow-up page.
package flash

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const sessionName = "notice"

// Store wraps a cookie session store dedicated to flash notices.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore builds a flash store signed with the given secret. Notices are
// short-lived; the cookie expires after five minutes if never consumed.
func NewStore(secret string) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	}
	return &Store{cookies: cs}
}

// Add queues a notice for the next request.
func (s *Store) Add(c echo.Context, msg string) {
	sess, _ := s.cookies.Get(c.Request(), sessionName)
	sess.AddFlash(msg)
	_ = sess.Save(c.Request(), c.Response())
}

// Pop returns and clears all queued notices.
func (s *Store) Pop(c echo.Context) []string {
	sess, _ := s.cookies.Get(c.Request(), sessionName)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
