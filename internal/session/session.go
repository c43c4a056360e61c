// Package session carries the signed-in identity of a request.
package session

import "context"

// Session is the identity behind a request. A nil *Session means anonymous.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Resolver yields the current session, or nil when the caller is anonymous.
type Resolver interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// ContextResolver reads the session placed in the context by the HTTP layer.
type ContextResolver struct{}

func (ContextResolver) CurrentSession(ctx context.Context) (*Session, error) {
	return FromContext(ctx), nil
}
