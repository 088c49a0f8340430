package domain

import "time"

// Comment belongs to exactly one note. Reported flags it for admin review.
type Comment struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Reported  bool      `json:"reported"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) IsAuthoredBy(userID string) bool {
	return c != nil && userID != "" && c.AuthorID == userID
}
