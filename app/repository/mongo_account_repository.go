package repository

import (
	"context"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoAccountRepository struct {
	col *mongo.Collection
}

// NewMongoAccountRepository creates an account repository on the accounts collection
func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &mongoAccountRepository{col: db.Collection(AccountsCollection)}
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, account)
	return translateMongoError(err)
}

func (r *mongoAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAccountRepository) GetByPhone(ctx context.Context, phone string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *mongoAccountRepository) GetByPhoneAndRole(ctx context.Context, phone, role string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"phone": phone, "role": role})
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := r.col.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, translateMongoError(err)
	}
	return &account, nil
}
