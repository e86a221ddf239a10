package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"undergraduation-admin/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommunicationRepository stores communications and keeps the denormalized
// communication counters on the student document current.
type CommunicationRepository struct {
	collection *mongo.Collection
	students   *mongo.Collection
}

func NewCommunicationRepository(db *mongo.Database) *CommunicationRepository {
	return &CommunicationRepository{
		collection: db.Collection("communications"),
		students:   db.Collection("students"),
	}
}

func (r *CommunicationRepository) AddCommunication(ctx context.Context, c *models.Communication) error {
	if c.ID == "" {
		c.ID = newID("comm")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert communication: %w", err)
	}

	if _, err := r.students.UpdateOne(ctx, bson.M{"_id": c.StudentID}, bson.M{"$inc": bson.M{"communicationsCount": 1}}); err != nil {
		return fmt.Errorf("bump communication count: %w", err)
	}

	// Only move lastCommunicationAt forward.
	newer := bson.M{
		"_id": c.StudentID,
		"$or": []bson.M{
			{"lastCommunicationAt": bson.M{"$exists": false}},
			{"lastCommunicationAt": nil},
			{"lastCommunicationAt": bson.M{"$lte": c.CreatedAt}},
		},
	}
	update := bson.M{"$set": bson.M{
		"lastCommunicationAt":      c.CreatedAt,
		"lastCommunicationChannel": c.Channel,
	}}
	if _, err := r.students.UpdateOne(ctx, newer, update); err != nil {
		return fmt.Errorf("update last communication: %w", err)
	}
	return nil
}

func (r *CommunicationRepository) ListCommunications(ctx context.Context, studentID string) ([]models.Communication, error) {
	return r.find(ctx, bson.M{"studentId": studentID})
}

func (r *CommunicationRepository) ListCommunicationsFor(ctx context.Context, studentIDs []string) (models.CommsByStudent, error) {
	filter := bson.M{}
	if studentIDs != nil {
		filter["studentId"] = bson.M{"$in": studentIDs}
	}
	comms, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}

	grouped := models.CommsByStudent{}
	for _, c := range comms {
		grouped[c.StudentID] = append(grouped[c.StudentID], c)
	}
	return grouped, nil
}

func (r *CommunicationRepository) UpdateCommunication(ctx context.Context, studentID, commID string, upd models.UpdateCommunicationRequest) (*models.Communication, error) {
	set := bson.M{}
	if upd.Subject != nil {
		set["subject"] = *upd.Subject
	}
	if upd.Body != nil {
		set["body"] = *upd.Body
	}

	filter := bson.M{"_id": commID, "studentId": studentID}
	if len(set) == 0 {
		var c models.Communication
		if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
			return nil, notFound(err)
		}
		return &c, nil
	}

	after := options.After
	opts := options.FindOneAndUpdateOptions{ReturnDocument: &after}

	var updated models.Communication
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, &opts).Decode(&updated); err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

// DeleteCommunication removes the record and recomputes the student's counters
// from what remains.
func (r *CommunicationRepository) DeleteCommunication(ctx context.Context, studentID, commID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": commID, "studentId": studentID})
	if err != nil {
		return fmt.Errorf("delete communication: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"studentId": studentID})
	if err != nil {
		return fmt.Errorf("count communications: %w", err)
	}

	var latest models.Communication
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err = r.collection.FindOne(ctx, bson.M{"studentId": studentID}, findOptions).Decode(&latest)

	var update bson.M
	switch {
	case err == nil:
		update = bson.M{"$set": bson.M{
			"communicationsCount":      count,
			"lastCommunicationAt":      latest.CreatedAt,
			"lastCommunicationChannel": latest.Channel,
		}}
	case errors.Is(err, mongo.ErrNoDocuments):
		update = bson.M{
			"$set":   bson.M{"communicationsCount": 0},
			"$unset": bson.M{"lastCommunicationAt": "", "lastCommunicationChannel": ""},
		}
	default:
		return fmt.Errorf("find latest communication: %w", err)
	}

	if _, err := r.students.UpdateOne(ctx, bson.M{"_id": studentID}, update); err != nil {
		return fmt.Errorf("recompute communication counters: %w", err)
	}
	return nil
}

func (r *CommunicationRepository) find(ctx context.Context, filter bson.M) ([]models.Communication, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	defer cursor.Close(ctx)

	comms := []models.Communication{}
	if err := cursor.All(ctx, &comms); err != nil {
		return nil, fmt.Errorf("decode communications: %w", err)
	}
	return comms, nil
}
