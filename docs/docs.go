// Package docs iReporter API.
//
// Documentation of the iReporter citizen reporting API.
//
//	Schemes: https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- basic
//
//	SecurityDefinitions:
//	basic:
//	  type: basic
//
// swagger:meta
package docs

import (
	"github.com/ireporter/ireporter-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/reports reports userReports
// Lists the caller's reports, newest first, with attached media.
// responses:
//   200: userReportsResponse

// The caller's reports with media attachments resolved to URLs.
// swagger:response userReportsResponse
type userReportsResponseWrapper struct {
	// in:body
	Body []models.ReportWithMedia
}

// swagger:route GET /api/v1/reports/all reports allReports
// Lists every report for the admin dashboard, optionally filtered by status or category.
// responses:
//   200: allReportsResponse

// All reports joined with reporter identity and media.
// swagger:response allReportsResponse
type allReportsResponseWrapper struct {
	// in:body
	Body []models.ReportWithDetails
}

// swagger:route GET /api/v1/notifications notifications userNotifications
// Lists the caller's notifications, newest first.
// responses:
//   200: userNotificationsResponse

// The caller's notification inbox.
// swagger:response userNotificationsResponse
type userNotificationsResponseWrapper struct {
	// in:body
	Body []models.Notification
}
