package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"undergraduation-admin/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type StaffRepository struct {
	collection *mongo.Collection
}

func NewStaffRepository(db *mongo.Database) *StaffRepository {
	return &StaffRepository{
		collection: db.Collection("staff"),
	}
}

func (r *StaffRepository) CreateStaff(ctx context.Context, s *models.Staff) error {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	s.Email = strings.ToLower(s.Email)
	if s.ID == "" {
		s.ID = newID("staff")
	}

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *StaffRepository) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *StaffRepository) FindStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *StaffRepository) FindStaffByGoogleID(ctx context.Context, googleID string) (*models.Staff, error) {
	return r.findOne(ctx, bson.M{"googleId": googleID})
}

func (r *StaffRepository) UpdateStaff(ctx context.Context, s *models.Staff) error {
	s.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":      s.Name,
			"picture":   s.Picture,
			"provider":  s.Provider,
			"googleId":  s.GoogleID,
			"updatedAt": s.UpdatedAt,
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": s.ID}, update)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *StaffRepository) findOne(ctx context.Context, filter bson.M) (*models.Staff, error) {
	var s models.Staff
	if err := r.collection.FindOne(ctx, filter).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}
