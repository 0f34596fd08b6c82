package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"axis/internal/models"
)

const employeesCollection = "employees"

// Mongo is the production Store, backed by a MongoDB collection of employee
// documents keyed by employee_id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and verifies the connection before returning.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(employeesCollection),
	}, nil
}

// Close disconnects the underlying client.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Mongo) FindOne(ctx context.Context, employeeID string) (*models.Employee, error) {
	var emp models.Employee
	err := s.coll.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", employeeID, err)
	}
	return &emp, nil
}

func (s *Mongo) FindMany(ctx context.Context, filter Filter, skip, limit int) ([]models.Employee, error) {
	query := bson.M{}
	if filter.BurnedOut != nil {
		query["is_burned_out"] = *filter.BurnedOut
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "employee_id", Value: 1}}).
		SetSkip(int64(skip))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, nil
}

func (s *Mongo) UpdateFields(ctx context.Context, employeeID string, fields Fields) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"employee_id": employeeID},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return fmt.Errorf("failed to update employee %s: %w", employeeID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) InsertMany(ctx context.Context, employees []models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	if _, err := s.coll.InsertMany(ctx, employees); err != nil {
		return fmt.Errorf("failed to insert employees: %w", err)
	}
	return nil
}

// Drop removes every employee document. Used by the seed command to start
// from a clean collection; not part of the Store interface.
func (s *Mongo) Drop(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear employees collection: %w", err)
	}
	return nil
}
