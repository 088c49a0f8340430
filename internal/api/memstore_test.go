package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wrapitup/planner-auth/internal/core/domain"
)

// memStore backs the user, note and comment repositories for router tests.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	notes    map[string]domain.Note
	comments map[string]domain.Comment
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]domain.User),
		notes:    make(map[string]domain.Note),
		comments: make(map[string]domain.Comment),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

type memUsers struct{ *memStore }

func (r memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := u
			out.Roles = append([]domain.Role(nil), u.Roles...)
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Roles = append([]domain.Role(nil), u.Roles...)
	return &u, nil
}

func (r memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	out := *user
	out.ID = r.nextID("u")
	r.users[out.ID] = out
	return &out, nil
}

func (r memUsers) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

type memNotes struct{ *memStore }

func (r memNotes) FindByID(_ context.Context, id string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	n.SharedWith = append([]string(nil), n.SharedWith...)
	return &n, nil
}

func (r memNotes) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *note
	out.ID = r.nextID("n")
	r.notes[out.ID] = out
	return &out, nil
}

func (r memNotes) Update(_ context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[note.ID]; !ok {
		return domain.ErrNoteNotFound
	}
	r.notes[note.ID] = *note
	return nil
}

func (r memNotes) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r memNotes) AddSharedUser(_ context.Context, noteID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok {
		return domain.ErrNoteNotFound
	}
	if !n.IsSharedWith(userID) {
		n.SharedWith = append(append([]string(nil), n.SharedWith...), userID)
	}
	r.notes[noteID] = n
	return nil
}

type memComments struct{ *memStore }

func (r memComments) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r memComments) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *comment
	out.ID = r.nextID("c")
	r.comments[out.ID] = out
	return &out, nil
}

func (r memComments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r memComments) ListByNote(_ context.Context, noteID string) ([]*domain.Comment, error) {
	return r.filter(func(c domain.Comment) bool { return c.NoteID == noteID }), nil
}

func (r memComments) ListReported(_ context.Context, page, size int) ([]*domain.Comment, int64, error) {
	all := r.filter(func(c domain.Comment) bool { return c.Reported })
	start := (page - 1) * size
	if start >= len(all) {
		return []*domain.Comment{}, int64(len(all)), nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r memComments) Save(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return domain.ErrCommentNotFound
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r memComments) filter(keep func(domain.Comment) bool) []*domain.Comment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Comment{}
	for _, c := range r.comments {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memPublisher struct {
	mu     sync.Mutex
	events []domain.ModerationEvent
}

func (p *memPublisher) Publish(e domain.ModerationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *memPublisher) actions() []domain.ModerationAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ModerationAction, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}
