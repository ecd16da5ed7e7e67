package databases

// go generate: mockery --name ReportMediaDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ireporter/ireporter-api/models"
)

const reportMediaName = "reportMedia"

// ReportMediaDatabase contains the methods to use with the reportMedia collection
type ReportMediaDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ReportMedia, error)
	InsertOne(ctx context.Context, media models.ReportMedia) error
	DeleteMany(ctx context.Context, filter interface{}) error
}

type reportMediaDatabase struct {
	db DatabaseHelper
}

// NewReportMediaDatabase initializes a new instance of report media database with the provided db connection
func NewReportMediaDatabase(db DatabaseHelper) ReportMediaDatabase {
	return &reportMediaDatabase{
		db: db,
	}
}

func (c *reportMediaDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ReportMedia, error) {
	cursor, err := c.db.Collection(reportMediaName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var media []models.ReportMedia
	if err := cursor.Decode(&media); err != nil {
		return nil, err
	}
	return media, nil
}

func (c *reportMediaDatabase) InsertOne(ctx context.Context, media models.ReportMedia) error {
	_, err := c.db.Collection(reportMediaName).InsertOne(ctx, media)
	return err
}

func (c *reportMediaDatabase) DeleteMany(ctx context.Context, filter interface{}) error {
	return c.db.Collection(reportMediaName).DeleteMany(ctx, filter)
}
