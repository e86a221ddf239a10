package repository

import (
	"context"

	"undergraduation-admin/internal/database"
)

// MongoStore is the document-database Store, composed of one repository per collection.
type MongoStore struct {
	*StudentRepository
	*CommunicationRepository
	*ActivityRepository
	*StaffRepository

	db *database.MongoDB
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	db, err := database.NewMongoDB(uri, dbName)
	if err != nil {
		return nil, err
	}
	db.EnsureIndexes(ctx)

	return &MongoStore{
		StudentRepository:       NewStudentRepository(db.Database),
		CommunicationRepository: NewCommunicationRepository(db.Database),
		ActivityRepository:      NewActivityRepository(db.Database),
		StaffRepository:         NewStaffRepository(db.Database),
		db:                      db,
	}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *MongoStore) Close() error {
	return s.db.Disconnect()
}
