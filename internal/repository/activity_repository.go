package repository

import (
	"context"
	"fmt"
	"time"

	"undergraduation-admin/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository stores the per-student timeline: interactions, notes and tasks.
type ActivityRepository struct {
	interactions *mongo.Collection
	notes        *mongo.Collection
	tasks        *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		interactions: db.Collection("interactions"),
		notes:        db.Collection("notes"),
		tasks:        db.Collection("tasks"),
	}
}

func (r *ActivityRepository) AddInteraction(ctx context.Context, i *models.Interaction) error {
	if i.ID == "" {
		i.ID = newID("int")
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now()
	}
	if _, err := r.interactions.InsertOne(ctx, i); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListInteractions(ctx context.Context, studentID string) ([]models.Interaction, error) {
	return listByStudent[models.Interaction](ctx, r.interactions, studentID)
}

func (r *ActivityRepository) AddNote(ctx context.Context, n *models.Note) error {
	if n.ID == "" {
		n.ID = newID("note")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if _, err := r.notes.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListNotes(ctx context.Context, studentID string) ([]models.Note, error) {
	return listByStudent[models.Note](ctx, r.notes, studentID)
}

func (r *ActivityRepository) UpdateNote(ctx context.Context, studentID, noteID, content string) (*models.Note, error) {
	after := options.After
	opts := options.FindOneAndUpdateOptions{ReturnDocument: &after}

	var updated models.Note
	filter := bson.M{"_id": noteID, "studentId": studentID}
	if err := r.notes.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"content": content}}, &opts).Decode(&updated); err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

func (r *ActivityRepository) DeleteNote(ctx context.Context, studentID, noteID string) error {
	return deleteOne(ctx, r.notes, studentID, noteID)
}

func (r *ActivityRepository) AddTask(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = newID("task")
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if _, err := r.tasks.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListTasks(ctx context.Context, studentID string) ([]models.Task, error) {
	return listByStudent[models.Task](ctx, r.tasks, studentID)
}

func (r *ActivityRepository) UpdateTask(ctx context.Context, studentID, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.DueAt != nil {
		set["dueAt"] = *upd.DueAt
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Assignee != nil {
		set["assignee"] = *upd.Assignee
	}

	filter := bson.M{"_id": taskID, "studentId": studentID}
	var updated models.Task
	if len(set) == 0 {
		if err := r.tasks.FindOne(ctx, filter).Decode(&updated); err != nil {
			return nil, notFound(err)
		}
		return &updated, nil
	}

	after := options.After
	opts := options.FindOneAndUpdateOptions{ReturnDocument: &after}
	if err := r.tasks.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, &opts).Decode(&updated); err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

func (r *ActivityRepository) DeleteTask(ctx context.Context, studentID, taskID string) error {
	return deleteOne(ctx, r.tasks, studentID, taskID)
}

// listByStudent returns a student's records of one collection, newest first.
func listByStudent[T any](ctx context.Context, coll *mongo.Collection, studentID string) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"studentId": studentID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, studentID, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "studentId": studentID})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
