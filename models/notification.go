package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification kinds
const (
	NotificationSystem       = "system"
	NotificationStatusUpdate = "status_update"
)

// Notification holds the structure for the notifications collection in mongo
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Type      string              `bson:"type" json:"type"`
	Read      bool                `bson:"read" json:"read"`
	ReportID  *primitive.ObjectID `bson:"reportId,omitempty" json:"reportId,omitempty"`
	CreatedAt primitive.DateTime  `bson:"createdAt" json:"createdAt"`
}
