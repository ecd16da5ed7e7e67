package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ireporter/ireporter-api/api"
	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
)

// MediaStore resolves and removes uploaded media blobs
type MediaStore interface {
	ResolveURL(publicID string) string
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a MediaStore backed by cloudinary credentials
// from the environment
func NewCloudinaryStore() (MediaStore, error) {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &cloudinaryStore{cld: cld}, nil
}

func (s *cloudinaryStore) ResolveURL(publicID string) string {
	img, err := s.cld.Image(publicID)
	if err != nil {
		zap.S().Warnw("failed to build cloudinary asset", "publicId", publicID, "error", err)
		return ""
	}
	url, err := img.String()
	if err != nil {
		zap.S().Warnw("failed to build cloudinary url", "publicId", publicID, "error", err)
		return ""
	}
	return url
}

func (s *cloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// Media exposes media upload signing and report attachments
type Media struct {
	RDB databases.ReportDatabase
	MDB databases.ReportMediaDatabase
}

// GenerateUploadSignature signs a direct-to-cloudinary upload request
func (m Media) GenerateUploadSignature(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	// Create the signature
	h := hmac.New(sha1.New, []byte(apiSecret))
	h.Write([]byte("timestamp=" + timestamp + "&upload_preset=" + uploadPreset))
	signature := hex.EncodeToString(h.Sum(nil))

	// Respond with the timestamp and signature
	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// AddReportMediaHandler attaches an uploaded blob to a report owned by the caller
func (m Media) AddReportMediaHandler(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		StorageID string `json:"storageId"`
		MediaType string `json:"mediaType"`
		FileName  string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.StorageID == "" || req.FileName == "" {
		config.ErrorStatus("storageId and fileName are required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}
	if req.MediaType != models.MediaTypeImage && req.MediaType != models.MediaTypeVideo {
		config.ErrorStatus("invalid media type", http.StatusBadRequest, w, fmt.Errorf("mediaType must be image or video"))
		return
	}

	report, err := m.RDB.FindOne(r.Context(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}
	if report.UserID != callerID {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller does not own report"))
		return
	}

	media := models.ReportMedia{
		ID:        primitive.NewObjectID(),
		ReportID:  rID,
		StorageID: req.StorageID,
		MediaType: req.MediaType,
		FileName:  req.FileName,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := m.MDB.InsertOne(r.Context(), media); err != nil {
		config.ErrorStatus("failed to attach media", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "media attached successfully",
		"id":      media.ID.Hex(),
	})
}
