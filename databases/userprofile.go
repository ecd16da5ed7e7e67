package databases

// go generate: mockery --name UserProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ireporter/ireporter-api/models"
)

const userProfileName = "userProfiles"

// UserProfileDatabase contains the methods to use with the userProfiles collection
type UserProfileDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.UserProfile, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.UserProfile, error)
	InsertOne(ctx context.Context, profile models.UserProfile) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type userProfileDatabase struct {
	db DatabaseHelper
}

// NewUserProfileDatabase initializes a new instance of user profile database with the provided db connection
func NewUserProfileDatabase(db DatabaseHelper) UserProfileDatabase {
	return &userProfileDatabase{
		db: db,
	}
}

func (c *userProfileDatabase) FindOne(ctx context.Context, filter interface{}) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := c.db.Collection(userProfileName).FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *userProfileDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.UserProfile, error) {
	cursor, err := c.db.Collection(userProfileName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var profiles []models.UserProfile
	if err := cursor.Decode(&profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *userProfileDatabase) InsertOne(ctx context.Context, profile models.UserProfile) error {
	_, err := c.db.Collection(userProfileName).InsertOne(ctx, profile)
	return err
}

func (c *userProfileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	return c.db.Collection(userProfileName).UpdateOne(ctx, filter, update)
}

func (c *userProfileDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(userProfileName).CountDocuments(ctx, filter)
}
