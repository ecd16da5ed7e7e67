package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report categories
const (
	CategoryRedFlag      = "red-flag"
	CategoryIntervention = "intervention"
)

// Report statuses
const (
	StatusPending            = "pending"
	StatusUnderInvestigation = "under-investigation"
	StatusResolved           = "resolved"
	StatusRejected           = "rejected"
)

// Location holds the geolocated address attached to a report
type Location struct {
	Address   string  `bson:"address" json:"address"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Report holds the structure for the reports collection in mongo
type Report struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	Category     string              `bson:"category" json:"category"`
	Type         string              `bson:"type" json:"type"`
	Status       string              `bson:"status" json:"status"`
	Location     Location            `bson:"location" json:"location"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	AdminID      *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	AdminComment string              `bson:"adminComment,omitempty" json:"adminComment,omitempty"`
	CreatedAt    primitive.DateTime  `bson:"createdAt" json:"createdAt"`
}

// ValidCategory reports whether c is one of the two report categories
func ValidCategory(c string) bool {
	return c == CategoryRedFlag || c == CategoryIntervention
}

// ValidStatus reports whether s is a known report status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUnderInvestigation, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// ReporterInfo is the reporter identity joined onto admin report listings
type ReporterInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReportWithMedia is a report joined with its media and resolved file URLs
type ReportWithMedia struct {
	Report
	Media []MediaWithURL `json:"media"`
}

// ReportWithDetails is the admin view of a report: reporter identity plus media
type ReportWithDetails struct {
	Report
	User  *ReporterInfo  `json:"user"`
	Media []MediaWithURL `json:"media"`
}
