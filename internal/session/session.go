// Package session holds the per-client key-value state: the cart, the
// signed-in display name, and the language/theme preferences. Sessions are
// identified by a cookie and live in Redis with a sliding TTL.
package session

import "context"

// Session is everything attached to one client cookie. The cart maps product
// ID to quantity; quantities are always positive, a line at zero is deleted.
type Session struct {
	UserID   int64         `json:"userId,omitempty"`
	UserName string        `json:"userName,omitempty"`
	Language string        `json:"language,omitempty"` // en, fr, ar or auto
	Theme    string        `json:"theme,omitempty"`    // light, dark or auto
	Cart     map[int64]int `json:"cart,omitempty"`
}

// CartCount is the total quantity across all cart lines.
func (s *Session) CartCount() int {
	count := 0
	for _, qty := range s.Cart {
		count += qty
	}
	return count
}

// Store persists sessions by ID. Get on an unknown ID returns a fresh empty
// session, never an error; the caller cannot tell a new client from an
// expired one and does not need to.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, sess *Session) error
	Delete(ctx context.Context, id string) error
}
