// Package policy decides whether a caller may create, update or delete a post.
//
// The rules depend on two inputs only: whether the request carries a session,
// and whether the deployment allows anonymous authoring. With anonymous
// authoring on, a caller without a session may change any post while a
// signed-in caller is still limited to their own posts. That asymmetry is
// intended for sandbox deployments and must not be tightened here.
package policy

import (
	"dashboard/internal/apperr"
	"dashboard/internal/session"
)

// Action is a mutation the policy rules on.
type Action string

const (
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Config holds the deployment switches the policy reads.
type Config struct {
	AllowAnonymous bool
}

// Context is the per-request authorization input.
type Context struct {
	Authenticated bool
	SessionUserID string
	AnonymousMode bool
}

// NewContext builds the authorization context for a request.
func NewContext(cfg Config, s *session.Session) Context {
	ac := Context{AnonymousMode: cfg.AllowAnonymous}
	if s != nil && s.UserID != "" {
		ac.Authenticated = true
		ac.SessionUserID = s.UserID
	}
	return ac
}

// Authorship says who will own a newly created post.
type Authorship struct {
	// UserID is set when the session user is the author.
	UserID string
	// Anonymous is set when the post belongs to the anonymous placeholder.
	Anonymous bool
}

// AuthorizeCreate resolves the author of a new post.
func AuthorizeCreate(ac Context) (Authorship, error) {
	switch {
	case ac.Authenticated:
		return Authorship{UserID: ac.SessionUserID}, nil
	case ac.AnonymousMode:
		return Authorship{Anonymous: true}, nil
	default:
		return Authorship{}, apperr.Unauthenticated("authentication required to create posts")
	}
}

// AuthorizeMutation decides an update or delete of an existing post owned by
// ownerID. The caller checks existence first.
func AuthorizeMutation(ac Context, action Action, ownerID string) error {
	if !ac.Authenticated {
		if ac.AnonymousMode {
			return nil
		}
		return apperr.Unauthenticated("authentication required")
	}
	if ac.SessionUserID != ownerID {
		return apperr.Forbidden("you don't have permission to " + action.verb() + " this post")
	}
	return nil
}

// verb is how the action reads in messages. Updates are "edit".
func (a Action) verb() string {
	if a == Update {
		return "edit"
	}
	return string(a)
}

// CanMutate reports whether AuthorizeMutation would allow the caller to
// change a post owned by ownerID.
func CanMutate(ac Context, ownerID string) bool {
	return AuthorizeMutation(ac, Update, ownerID) == nil
}
