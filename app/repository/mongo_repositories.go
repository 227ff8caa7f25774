package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the MongoDB backend.
const (
	AccountsCollection = "accounts"
	ReportsCollection  = "reports"
	WardsCollection    = "wards"
)

// NewMongoRepositories creates the MongoDB-backed repositories
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Account: NewMongoAccountRepository(db),
		Report:  NewMongoReportRepository(db),
		Ward:    NewMongoWardRepository(db),
	}
}

// EnsureMongoIndexes creates the unique and lookup indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		AccountsCollection: {
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ReportsCollection: {
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "wardId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "submitterId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	var errs []error
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// translateMongoError maps driver errors onto the package errors.
func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
