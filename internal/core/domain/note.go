package domain

import "time"

// Visibility controls who can read a note.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Category is the subject grouping of a note.
type Category string

const (
	CategoryMaths     Category = "MATHS"
	CategoryScience   Category = "SCIENCE"
	CategoryHistory   Category = "HISTORY"
	CategoryArt       Category = "ART"
	CategoryLanguages Category = "LANGUAGES"
	CategoryOthers    Category = "OTHERS"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMaths, CategoryScience, CategoryHistory, CategoryArt, CategoryLanguages, CategoryOthers:
		return true
	}
	return false
}

// Note is the shareable resource every permission decision revolves around.
// SharedWith holds user IDs and is only meaningful while the note is PRIVATE.
type Note struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	Overview      string     `json:"overview"`
	Summary       string     `json:"summary"`
	JSONQuestions string     `json:"json_questions,omitempty"`
	Category      Category   `json:"category"`
	Visibility    Visibility `json:"visibility"`
	SharedWith    []string   `json:"shared_with"`
	LastModified  time.Time  `json:"last_modified"`
}

func (n *Note) IsOwnedBy(userID string) bool {
	return n != nil && userID != "" && n.OwnerID == userID
}

// IsSharedWith reports whether userID was granted read access.
func (n *Note) IsSharedWith(userID string) bool {
	if n == nil || userID == "" {
		return false
	}
	for _, id := range n.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}
