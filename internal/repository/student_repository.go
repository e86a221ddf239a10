package repository

import (
	"context"
	"errors"
	"fmt"

	"undergraduation-admin/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StudentRepository struct {
	collection *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{
		collection: db.Collection("students"),
	}
}

// UpsertStudent replaces the student document, creating it when absent.
func (r *StudentRepository) UpsertStudent(ctx context.Context, s *models.Student) error {
	if s.ID == "" {
		s.ID = newID("stu")
	}
	s.Flags = models.NewFlags(s.Flags...)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts); err != nil {
		return fmt.Errorf("upsert student %s: %w", s.ID, err)
	}
	return nil
}

func (r *StudentRepository) ListStudents(ctx context.Context) ([]models.Student, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "lastActiveAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// UpdateStudent applies the non-nil fields of upd and returns the updated document.
func (r *StudentRepository) UpdateStudent(ctx context.Context, id string, upd models.StudentUpdate) (*models.Student, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Grade != nil {
		set["grade"] = *upd.Grade
	}
	if upd.Country != nil {
		set["country"] = *upd.Country
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.LastActiveAt != nil {
		set["lastActiveAt"] = *upd.LastActiveAt
	}
	if upd.Flags != nil {
		set["flags"] = models.NewFlags(upd.Flags...)
	}
	if len(set) == 0 {
		return r.GetStudent(ctx, id)
	}

	after := options.After
	opts := options.FindOneAndUpdateOptions{ReturnDocument: &after}

	var updated models.Student
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, &opts).Decode(&updated)
	if err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

func (r *StudentRepository) SetStudentFlags(ctx context.Context, id string, flags models.Flags) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"flags": models.NewFlags(flags...)}})
	if err != nil {
		return fmt.Errorf("set flags %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// notFound maps mongo.ErrNoDocuments to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
