package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wrapitup/planner-auth/internal/core/domain"
	"github.com/wrapitup/planner-auth/internal/core/ports"
)

const notesCollection = "notes"

type NoteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: db.Collection(notesCollection)}
}

var _ ports.NoteRepository = (*NoteRepository)(nil)

type mongoNote struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID       string             `bson:"owner_id"`
	Title         string             `bson:"title"`
	Overview      string             `bson:"overview"`
	Summary       string             `bson:"summary"`
	JSONQuestions string             `bson:"json_questions,omitempty"`
	Category      string             `bson:"category"`
	Visibility    string             `bson:"visibility"`
	SharedWith    []string           `bson:"shared_with"`
	LastModified  time.Time          `bson:"last_modified"`
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mn mongoNote
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return mn.toDomain(), nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoNote{
		OwnerID:       note.OwnerID,
		Title:         note.Title,
		Overview:      note.Overview,
		Summary:       note.Summary,
		JSONQuestions: note.JSONQuestions,
		Category:      string(note.Category),
		Visibility:    string(note.Visibility),
		// Never nil: $addToSet fails on a null field.
		SharedWith:   append([]string{}, note.SharedWith...),
		LastModified: note.LastModified.UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert note: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// Update rewrites the editable fields. Owner and share list are left alone so
// a concurrent share is never lost.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	oid, ok := objectID(note.ID)
	if !ok {
		return domain.ErrNoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":          note.Title,
		"overview":       note.Overview,
		"summary":        note.Summary,
		"json_questions": note.JSONQuestions,
		"category":       string(note.Category),
		"visibility":     string(note.Visibility),
		"last_modified":  note.LastModified.UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrNoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// AddSharedUser appends userID to the share list; repeating it is a no-op.
func (r *NoteRepository) AddSharedUser(ctx context.Context, noteID, userID string) error {
	oid, ok := objectID(noteID)
	if !ok {
		return domain.ErrNoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"shared_with": userID}},
	)
	if err != nil {
		return fmt.Errorf("share note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "shared_with", Value: 1}}},
	})
	return err
}

func (mn mongoNote) toDomain() *domain.Note {
	return &domain.Note{
		ID:            mn.ID.Hex(),
		OwnerID:       mn.OwnerID,
		Title:         mn.Title,
		Overview:      mn.Overview,
		Summary:       mn.Summary,
		JSONQuestions: mn.JSONQuestions,
		Category:      domain.Category(mn.Category),
		Visibility:    domain.Visibility(mn.Visibility),
		SharedWith:    mn.SharedWith,
		LastModified:  mn.LastModified,
	}
}
