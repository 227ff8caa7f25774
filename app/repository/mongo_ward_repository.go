package repository

import (
	"context"

	"github.com/fixmyward/fixmyward/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoWardRepository struct {
	col *mongo.Collection
}

// NewMongoWardRepository creates a ward repository on the wards collection
func NewMongoWardRepository(db *mongo.Database) WardRepository {
	return &mongoWardRepository{col: db.Collection(WardsCollection)}
}

func (r *mongoWardRepository) Upsert(ctx context.Context, ward *models.Ward) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": ward.ID}, ward, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoWardRepository) GetByID(ctx context.Context, id string) (*models.Ward, error) {
	var ward models.Ward
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ward); err != nil {
		return nil, translateMongoError(err)
	}
	return &ward, nil
}

func (r *mongoWardRepository) List(ctx context.Context) ([]models.Ward, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	wards := []models.Ward{}
	if err := cur.All(ctx, &wards); err != nil {
		return nil, err
	}
	return wards, nil
}
