package repository

import (
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are built once
type Factory struct {
	build func() *Repositories
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a repository factory backed by a GORM handle
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		build: func() *Repositories { return NewRepositories(db) },
	}
}

// NewMongoFactory creates a repository factory backed by a MongoDB database
func NewMongoFactory(db *mongo.Database) *Factory {
	return &Factory{
		build: func() *Repositories { return NewMongoRepositories(db) },
	}
}

// GetRepositories returns the shared instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = f.build()
	})
	return f.repos
}
