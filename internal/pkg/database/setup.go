package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// Supported DB_DRIVER values.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Models lists every table the relational backends migrate.
func Models() []interface{} {
	return []interface{}{
		&models.Ward{},
		&models.Account{},
		&models.Report{},
	}
}

// Driver returns the configured backend, defaulting to mysql.
func Driver() string {
	return strings.ToLower(env.GetEnv("DB_DRIVER", DriverMySQL))
}

// Dialector builds the GORM dialector for a relational driver from the environment.
func Dialector(driver string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_PORT", "3306"),
			env.GetEnv("DB_NAME", "fixmyward"),
		)
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_NAME", "fixmyward"),
			env.GetEnv("DB_PORT", "5432"),
			env.GetEnv("DB_SSLMODE", "disable"),
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(env.GetEnv("DB_PATH", "fixmyward.db")), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// SetupDatabase opens a relational database, retrying while the server comes up, and migrates the schema
func SetupDatabase(driver string) (*gorm.DB, error) {
	dialector, err := Dialector(driver)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}

		log.Warnf("[Database] Failed to connect to %s (try %d/%d): %v", driver, i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite allows one writer at a time
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	log.Infof("[Database] Connected to %s", driver)
	return db, nil
}

// SetupMongo connects to MongoDB and ensures the repository indexes exist
func SetupMongo(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	uri := env.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
	name := env.GetEnv("MONGODB_DB", "fixmyward")

	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(dctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(name)
	if err := repository.EnsureMongoIndexes(dctx, db); err != nil {
		log.Warnf("[Database] Mongo index creation warnings: %v", err)
	}

	log.Infof("[Database] Connected to MongoDB database %s", name)
	return client, db, nil
}

// SetupRepositories opens the configured backend and returns its repositories and a close function
func SetupRepositories(ctx context.Context) (*repository.Repositories, func(), error) {
	driver := Driver()
	if driver == DriverMongo {
		client, db, err := SetupMongo(ctx)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Errorf("[Database] Mongo disconnect: %v", err)
			}
		}
		return repository.NewMongoFactory(db).GetRepositories(), closer, nil
	}

	db, err := SetupDatabase(driver)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repository.NewFactory(db).GetRepositories(), closer, nil
}
