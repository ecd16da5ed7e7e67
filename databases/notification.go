package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ireporter/ireporter-api/models"
)

const notificationName = "notifications"

// NotificationDatabase contains the methods to use with the notifications collection
type NotificationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Notification, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Notification, error)
	InsertOne(ctx context.Context, notification models.Notification) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (c *notificationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Notification, error) {
	notification := &models.Notification{}
	err := c.db.Collection(notificationName).FindOne(ctx, filter).Decode(&notification)
	if err != nil {
		return nil, err
	}
	return notification, nil
}

func (c *notificationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Notification, error) {
	cursor, err := c.db.Collection(notificationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := cursor.Decode(&notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *notificationDatabase) InsertOne(ctx context.Context, notification models.Notification) error {
	_, err := c.db.Collection(notificationName).InsertOne(ctx, notification)
	return err
}

func (c *notificationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	return c.db.Collection(notificationName).UpdateOne(ctx, filter, update)
}

func (c *notificationDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	return c.db.Collection(notificationName).UpdateMany(ctx, filter, update)
}

func (c *notificationDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(notificationName).CountDocuments(ctx, filter)
}
