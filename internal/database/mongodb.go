package database

import (
	"context"
	"time"

	"undergraduation-admin/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	logger.Log.Info("connected to MongoDB", zap.String("database", dbName))

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// Collection helpers
func (m *MongoDB) Students() *mongo.Collection {
	return m.Database.Collection("students")
}

func (m *MongoDB) Communications() *mongo.Collection {
	return m.Database.Collection("communications")
}

func (m *MongoDB) Interactions() *mongo.Collection {
	return m.Database.Collection("interactions")
}

func (m *MongoDB) Notes() *mongo.Collection {
	return m.Database.Collection("notes")
}

func (m *MongoDB) Tasks() *mongo.Collection {
	return m.Database.Collection("tasks")
}

func (m *MongoDB) Staff() *mongo.Collection {
	return m.Database.Collection("staff")
}

// EnsureIndexes creates the indexes the repositories query by. Failures are logged, not fatal.
func (m *MongoDB) EnsureIndexes(ctx context.Context) {
	byStudent := mongo.IndexModel{
		Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_student_created"),
	}
	for _, coll := range []*mongo.Collection{m.Communications(), m.Interactions(), m.Notes(), m.Tasks()} {
		if _, err := coll.Indexes().CreateOne(ctx, byStudent); err != nil {
			logger.Log.Warn("create index failed", zap.String("collection", coll.Name()), zap.Error(err))
		}
	}

	studentIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("idx_status")},
		{Keys: bson.D{{Key: "lastActiveAt", Value: -1}}, Options: options.Index().SetName("idx_last_active")},
		{Keys: bson.D{{Key: "flags", Value: 1}}, Options: options.Index().SetName("idx_flags")},
	}
	if _, err := m.Students().Indexes().CreateMany(ctx, studentIdx); err != nil {
		logger.Log.Warn("create index failed", zap.String("collection", "students"), zap.Error(err))
	}

	_, err := m.Staff().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email").SetUnique(true),
	})
	if err != nil {
		logger.Log.Warn("create index failed", zap.String("collection", "staff"), zap.Error(err))
	}
}
