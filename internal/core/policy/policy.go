// Package policy decides whether a caller may perform an action on a note,
// comment or user profile. Resolve is pure: it reads only the caller and the already-fetched
// resource, never the store, and every input maps to exactly one Decision.
package policy

import (
	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// Caller is either anonymous or an authenticated user.
type Caller struct {
	user *domain.User
}

func Anonymous() Caller { return Caller{} }

// Authenticated wraps u. A nil user yields an anonymous caller.
func Authenticated(u *domain.User) Caller { return Caller{user: u} }

func (c Caller) IsAnonymous() bool { return c.user == nil }

// User returns the authenticated user, or nil for an anonymous caller.
func (c Caller) User() *domain.User { return c.user }

// ID is the caller's user id, empty when anonymous.
func (c Caller) ID() string {
	if c.user == nil {
		return ""
	}
	return c.user.ID
}

type Action int

const (
	Read Action = iota + 1
	Create
	Edit
	Delete
	Share
	CommentRead
	CommentCreate
	CommentDelete
	Report
	Moderate
	ViewProfile
)

var actionNames = map[Action]string{
	Read:          "read",
	Create:        "create",
	Edit:          "edit",
	Delete:        "delete",
	Share:         "share",
	CommentRead:   "comment_read",
	CommentCreate: "comment_create",
	CommentDelete: "comment_delete",
	Report:        "report",
	Moderate:      "moderate",
	ViewProfile:   "view_profile",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// authorship reports whether a is blocked for banned callers.
func (a Action) authorship() bool {
	return a == Create || a == Edit || a == CommentCreate
}

// Resource is the target of an action. Comment actions carry the owning note
// because comment visibility derives from it. Create takes an empty Resource.
// ViewProfile only reads User.ID, so the target need not be loaded first.
type Resource struct {
	Note    *domain.Note
	Comment *domain.Comment
	User    *domain.User
}

func OnNote(n *domain.Note) Resource { return Resource{Note: n} }

func OnComment(n *domain.Note, c *domain.Comment) Resource {
	return Resource{Note: n, Comment: c}
}

func OnUser(u *domain.User) Resource { return Resource{User: u} }

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	default:
		return "deny_forbidden"
	}
}

// Err maps a denial onto the domain error the transport layer turns into
// 401 or 403. It returns nil for Allow.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return domain.ErrAuthenticationRequired
	default:
		return domain.ErrPermissionDenied
	}
}

// Resolve evaluates the rules in order; the first match wins.
func Resolve(caller Caller, res Resource, action Action) Decision {
	u := caller.user

	if u.IsBanned() && action.authorship() {
		return DenyForbidden
	}

	switch action {
	case ViewProfile:
		return resolveProfile(caller, res.User)
	case CommentRead:
		return Resolve(caller, OnNote(res.Note), Read)
	case CommentCreate, Report:
		if caller.IsAnonymous() {
			return DenyUnauthenticated
		}
		return Resolve(caller, OnNote(res.Note), Read)
	}

	if action == Read && res.Note != nil && res.Note.Visibility == domain.VisibilityPublic {
		return Allow
	}

	if caller.IsAnonymous() {
		return DenyUnauthenticated
	}

	if u.IsAdmin() {
		switch action {
		case Read, Delete, CommentDelete, Moderate:
			return Allow
		case Create, Edit:
			return DenyForbidden
		}
	}

	switch action {
	case Read, Edit, Delete, Share:
		if res.Note.IsOwnedBy(u.ID) {
			return Allow
		}
	case CommentDelete:
		if res.Comment.IsAuthoredBy(u.ID) {
			return Allow
		}
	case Create:
		if u.HasRole(domain.RoleUser) {
			return Allow
		}
	}

	if action == Read && res.Note.IsSharedWith(u.ID) {
		return Allow
	}

	return DenyForbidden
}

// resolveProfile lets users read their own profile and admins read any.
func resolveProfile(caller Caller, target *domain.User) Decision {
	u := caller.user
	switch {
	case caller.IsAnonymous():
		return DenyUnauthenticated
	case u.IsAdmin():
		return Allow
	case target != nil && target.ID != "" && target.ID == u.ID:
		return Allow
	}
	return DenyForbidden
}
