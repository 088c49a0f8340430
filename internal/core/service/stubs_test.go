package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var errStore = errors.New("store unavailable")

type stubUserRepo struct {
	byID    map[string]*domain.User
	findErr error
	saveErr error
	saved   int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.byID[u.ID] = &clone
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", len(r.byID)+1)
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	r.saved++
	return nil
}

type stubNoteRepo struct {
	byID    map[string]*domain.Note
	created int
}

func newStubNoteRepo(notes ...*domain.Note) *stubNoteRepo {
	r := &stubNoteRepo{byID: make(map[string]*domain.Note)}
	for _, n := range notes {
		r.byID[n.ID] = cloneNote(n)
	}
	return r
}

func cloneNote(n *domain.Note) *domain.Note {
	clone := *n
	clone.SharedWith = append([]string(nil), n.SharedWith...)
	return &clone
}

func (r *stubNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (r *stubNoteRepo) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.created++
	created := cloneNote(note)
	created.ID = fmt.Sprintf("n%d", r.created)
	r.byID[created.ID] = cloneNote(created)
	return created, nil
}

func (r *stubNoteRepo) Update(_ context.Context, note *domain.Note) error {
	if _, ok := r.byID[note.ID]; !ok {
		return domain.ErrNoteNotFound
	}
	r.byID[note.ID] = cloneNote(note)
	return nil
}

func (r *stubNoteRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubNoteRepo) AddSharedUser(_ context.Context, noteID, userID string) error {
	n, ok := r.byID[noteID]
	if !ok {
		return domain.ErrNoteNotFound
	}
	if !n.IsSharedWith(userID) {
		n.SharedWith = append(n.SharedWith, userID)
	}
	return nil
}

type stubCommentRepo struct {
	byID    map[string]*domain.Comment
	saveErr error
	saved   int
	created int
}

func newStubCommentRepo(comments ...*domain.Comment) *stubCommentRepo {
	r := &stubCommentRepo{byID: make(map[string]*domain.Comment)}
	for _, c := range comments {
		clone := *c
		r.byID[c.ID] = &clone
	}
	return r
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	r.created++
	clone := *comment
	clone.ID = fmt.Sprintf("c%d", r.created)
	stored := clone
	r.byID[clone.ID] = &stored
	return &clone, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCommentRepo) ListByNote(_ context.Context, noteID string) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.byID {
		if c.NoteID == noteID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCommentRepo) ListReported(_ context.Context, page, size int) ([]*domain.Comment, int64, error) {
	var matched []*domain.Comment
	for _, c := range r.byID {
		if c.Reported {
			clone := *c
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	skip := (page - 1) * size
	if skip > len(matched) {
		return []*domain.Comment{}, total, nil
	}
	end := skip + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubCommentRepo) Save(_ context.Context, comment *domain.Comment) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.byID[comment.ID]; !ok {
		return domain.ErrCommentNotFound
	}
	clone := *comment
	r.byID[comment.ID] = &clone
	r.saved++
	return nil
}

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.ModerationEvent
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.ModerationEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubPublisher struct {
	events []domain.ModerationEvent
}

func (p *stubPublisher) Publish(e domain.ModerationEvent) {
	p.events = append(p.events, e)
}

type stubThrottle struct {
	failures  map[string]int
	limit     int
	checkErr  error
	resetKeys []string
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) Exceeded(_ context.Context, username string) (bool, error) {
	if t.checkErr != nil {
		return false, t.checkErr
	}
	return t.failures[username] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	delete(t.failures, username)
	t.resetKeys = append(t.resetKeys, username)
	return nil
}

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

func activeUser(id string, roles ...domain.Role) *domain.User {
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	return &domain.User{ID: id, Username: id, Roles: roles, Status: domain.StatusActive}
}
