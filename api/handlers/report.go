package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ireporter/ireporter-api/api"
	"github.com/ireporter/ireporter-api/api/mailer"
	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
	templates "github.com/ireporter/ireporter-api/templates/html"
)

// StatusMailer queues a single email for background delivery
type StatusMailer interface {
	Enqueue(e mailer.Email)
}

// Report exposes the report lifecycle endpoints
type Report struct {
	RDB    databases.ReportDatabase
	MDB    databases.ReportMediaDatabase
	NDB    databases.NotificationDatabase
	PDB    databases.UserProfileDatabase
	UDB    databases.UserDatabase
	Media  MediaStore
	Mailer StatusMailer
}

type createReportRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Location    models.Location `json:"location"`
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	AdminComment string `json:"adminComment"`
}

// CreateReportHandler files a new report for the caller and notifies them
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" || req.Description == "" || req.Type == "" || req.Location.Address == "" {
		config.ErrorStatus("title, description, type and location are required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}
	if !models.ValidCategory(req.Category) {
		config.ErrorStatus("invalid category", http.StatusBadRequest, w, fmt.Errorf("category must be red-flag or intervention"))
		return
	}

	report := models.Report{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Type:        req.Type,
		Status:      models.StatusPending,
		Location:    req.Location,
		UserID:      callerID,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := re.RDB.InsertOne(r.Context(), report); err != nil {
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    callerID,
		Title:     "Report Submitted",
		Message:   fmt.Sprintf("Your %s report \"%s\" has been submitted successfully.", report.Category, report.Title),
		Type:      models.NotificationSystem,
		Read:      false,
		ReportID:  &report.ID,
		CreatedAt: report.CreatedAt,
	}
	if err := re.NDB.InsertOne(r.Context(), notification); err != nil {
		zap.S().Errorw("failed to create submission notification",
			"reportId", report.ID.Hex(),
			"error", err)
	} else {
		sendNotificationToUser(callerID.Hex(), notification)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "report created successfully",
		"id":      report.ID.Hex(),
	})
}

// UserReportsHandler returns the caller's reports, newest first, with media
func (re Report) UserReportsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	reports, err := re.RDB.Find(r.Context(), bson.M{"userId": callerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	out := make([]models.ReportWithMedia, 0, len(reports))
	for _, rep := range reports {
		out = append(out, models.ReportWithMedia{
			Report: rep,
			Media:  re.mediaForReport(r.Context(), rep.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// AllReportsHandler returns every report for the admin dashboard, with an
// optional status or category filter. Status takes precedence when both are
// given.
func (re Report) AllReportsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}
	if !re.isAdmin(r.Context(), callerID) {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller is not an admin"))
		return
	}

	filter := bson.M{}
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")
	if status != "" {
		if !models.ValidStatus(status) {
			config.ErrorStatus("invalid status", http.StatusBadRequest, w, fmt.Errorf("unknown status %q", status))
			return
		}
		filter = bson.M{"status": status}
	} else if category != "" {
		if !models.ValidCategory(category) {
			config.ErrorStatus("invalid category", http.StatusBadRequest, w, fmt.Errorf("unknown category %q", category))
			return
		}
		filter = bson.M{"category": category}
	}

	reports, err := re.RDB.Find(r.Context(), filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	out := make([]models.ReportWithDetails, 0, len(reports))
	for _, rep := range reports {
		details := models.ReportWithDetails{
			Report: rep,
			Media:  re.mediaForReport(r.Context(), rep.ID),
		}
		if user, err := re.UDB.FindOne(r.Context(), bson.M{"_id": rep.UserID}); err == nil {
			details.User = &models.ReporterInfo{Name: user.Name, Email: user.Email}
		}
		out = append(out, details)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// UpdateReportStatusHandler moves a report through triage and notifies the owner
func (re Report) UpdateReportStatusHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}
	if !re.isAdmin(r.Context(), callerID) {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller is not an admin"))
		return
	}

	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if !models.ValidStatus(req.Status) {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	report, err := re.RDB.FindOne(r.Context(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"status":       req.Status,
		"adminId":      callerID,
		"adminComment": req.AdminComment,
	}}
	if err := re.RDB.UpdateOne(r.Context(), bson.M{"_id": rID}, update); err != nil {
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
		return
	}

	message := fmt.Sprintf("Your report \"%s\" status has been updated to %s.", report.Title, req.Status)
	if req.AdminComment != "" {
		message += fmt.Sprintf(" Admin comment: %s", req.AdminComment)
	}
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    report.UserID,
		Title:     "Report Status Updated",
		Message:   message,
		Type:      models.NotificationStatusUpdate,
		Read:      false,
		ReportID:  &rID,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := re.NDB.InsertOne(r.Context(), notification); err != nil {
		zap.S().Errorw("failed to create status notification",
			"reportId", rID.Hex(),
			"error", err)
	} else {
		sendNotificationToUser(report.UserID.Hex(), notification)
	}

	re.emailOwner(r.Context(), report, req.Status, req.AdminComment)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "report status updated successfully"})
}

// DeleteReportHandler removes a report along with its media. Owners may only
// delete reports still pending, admins may delete any report.
func (re Report) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	report, err := re.RDB.FindOne(r.Context(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	isOwner := report.UserID == callerID
	isAdmin := re.isAdmin(r.Context(), callerID)
	if !isOwner && !isAdmin {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller does not own report"))
		return
	}
	if isOwner && !isAdmin && report.Status != models.StatusPending {
		config.ErrorStatus("only pending reports can be deleted", http.StatusForbidden, w, fmt.Errorf("report status is %s", report.Status))
		return
	}

	media, err := re.MDB.Find(r.Context(), bson.M{"reportId": rID})
	if err != nil {
		config.ErrorStatus("failed to get report media", http.StatusInternalServerError, w, err)
		return
	}
	for _, item := range media {
		if re.Media == nil {
			continue
		}
		// an unreachable blob store should not block the delete
		if err := re.Media.Destroy(r.Context(), item.StorageID); err != nil {
			zap.S().Warnw("failed to destroy media blob",
				"storageId", item.StorageID,
				"error", err)
		}
	}
	if err := re.MDB.DeleteMany(r.Context(), bson.M{"reportId": rID}); err != nil {
		config.ErrorStatus("failed to delete report media", http.StatusInternalServerError, w, err)
		return
	}
	if err := re.RDB.DeleteOne(r.Context(), bson.M{"_id": rID}); err != nil {
		config.ErrorStatus("failed to delete report", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "report deleted successfully"})
}

func (re Report) isAdmin(ctx context.Context, userID primitive.ObjectID) bool {
	profile, err := re.PDB.FindOne(ctx, bson.M{"userId": userID})
	return err == nil && profile.IsAdmin
}

func (re Report) mediaForReport(ctx context.Context, reportID primitive.ObjectID) []models.MediaWithURL {
	media, err := re.MDB.Find(ctx, bson.M{"reportId": reportID})
	if err != nil {
		zap.S().Warnw("failed to get report media", "reportId", reportID.Hex(), "error", err)
		return []models.MediaWithURL{}
	}
	out := make([]models.MediaWithURL, 0, len(media))
	for _, item := range media {
		url := ""
		if re.Media != nil {
			url = re.Media.ResolveURL(item.StorageID)
		}
		out = append(out, models.MediaWithURL{ReportMedia: item, URL: url})
	}
	return out
}

func (re Report) emailOwner(ctx context.Context, report *models.Report, status, adminComment string) {
	if re.Mailer == nil {
		return
	}
	owner, err := re.UDB.FindOne(ctx, bson.M{"_id": report.UserID})
	if err != nil {
		zap.S().Warnw("failed to resolve report owner for email",
			"reportId", report.ID.Hex(),
			"error", err)
		return
	}
	plain := fmt.Sprintf("Your report \"%s\" status has been updated to %s.", report.Title, status)
	if adminComment != "" {
		plain += fmt.Sprintf("\n\nAdmin comment: %s", adminComment)
	}
	re.Mailer.Enqueue(mailer.Email{
		ToName:    owner.Name,
		ToEmail:   owner.Email,
		Subject:   "Report Status Updated: " + report.Title,
		PlainText: plain,
		HTML:      templates.RenderStatusUpdateEmail(report.Title, status, adminComment),
	})
}
