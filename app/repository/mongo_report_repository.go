package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReportRepository struct {
	col *mongo.Collection
}

// NewMongoReportRepository creates a report repository on the reports collection
func NewMongoReportRepository(db *mongo.Database) ReportRepository {
	return &mongoReportRepository{col: db.Collection(ReportsCollection)}
}

func (r *mongoReportRepository) Create(ctx context.Context, report *models.Report) error {
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	_, err := r.col.InsertOne(ctx, report)
	return translateMongoError(err)
}

func (r *mongoReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		return nil, translateMongoError(err)
	}
	return &report, nil
}

func (r *mongoReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	query := bson.M{}
	if filter.WardID != "" {
		query["wardId"] = filter.WardID
	}
	if filter.SubmitterID != "" {
		query["submitterId"] = filter.SubmitterID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cur.Close(ctx)

	reports := []models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

func (r *mongoReportRepository) MarkVerified(ctx context.Context, id, verifiedByID string, at time.Time) (*models.Report, error) {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ReportStatusPending},
		bson.M{"$set": bson.M{
			"status":       models.ReportStatusVerified,
			"verifiedById": verifiedByID,
			"verifiedAt":   at,
			"updatedAt":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify report %s: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

func (r *mongoReportRepository) CountByWardGroupedByStatus(ctx context.Context, wardID string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"wardId": wardID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports for ward %s: %w", wardID, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *mongoReportRepository) CountBySubmitter(ctx context.Context, submitterID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"submitterId": submitterID})
}
