package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserProfile holds the structure for the userProfiles collection in mongo.
// One profile per user, created lazily on first write.
type UserProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	IsAdmin     bool               `bson:"isAdmin" json:"isAdmin"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt   primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
