package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Media kinds
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// ReportMedia holds the structure for the reportMedia collection in mongo.
// StorageID is the blob store public ID returned by the client-side upload.
type ReportMedia struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReportID  primitive.ObjectID `bson:"reportId" json:"reportId"`
	StorageID string             `bson:"storageId" json:"storageId"`
	MediaType string             `bson:"mediaType" json:"mediaType"`
	FileName  string             `bson:"fileName" json:"fileName"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// MediaWithURL is a media record joined with its resolved delivery URL
type MediaWithURL struct {
	ReportMedia
	URL string `json:"url"`
}
