package databases

// go generate: mockery --name UserDatabase

import (
	"context"

	"github.com/ireporter/ireporter-api/models"
)

const userName = "users"

// UserDatabase contains the methods to use with the users collection
type UserDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.User, error)
	InsertOne(ctx context.Context, user models.User) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (c *userDatabase) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	user := &models.User{}
	err := c.db.Collection(userName).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (c *userDatabase) InsertOne(ctx context.Context, user models.User) error {
	_, err := c.db.Collection(userName).InsertOne(ctx, user)
	return err
}

func (c *userDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(userName).CountDocuments(ctx, filter)
}
