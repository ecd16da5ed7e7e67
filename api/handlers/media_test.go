package handlers_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ireporter/ireporter-api/api/handlers"
	"github.com/ireporter/ireporter-api/databases/mocks"
	"github.com/ireporter/ireporter-api/models"
)

func TestMedia_GenerateUploadSignature(t *testing.T) {
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "ireporter_unsigned")
	t.Setenv("CLOUDINARY_API_SECRET", "shhh")

	req, _ := http.NewRequest("POST", "/api/v1/media/upload-signature", nil)

	m := handlers.Media{}
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.GenerateUploadSignature).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["timestamp"])

	h := hmac.New(sha1.New, []byte("shhh"))
	h.Write([]byte("timestamp=" + resp["timestamp"] + "&upload_preset=ireporter_unsigned"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), resp["signature"])
}

func TestMedia_AddReportMediaHandler(t *testing.T) {
	ownerID := primitive.NewObjectID()
	reportID := primitive.NewObjectID()

	rDB := &mocks.ReportDatabase{}
	mDB := &mocks.ReportMediaDatabase{}
	rDB.On("FindOne", mock.Anything, bson.M{"_id": reportID}).Return(&models.Report{ID: reportID, UserID: ownerID}, nil)
	mDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.ReportMedia")).Return(nil)

	body := []byte(`{"storageId":"ireporter/abc123","mediaType":"image","fileName":"pothole.jpg"}`)
	req := authenticatedRequest(t, "POST", "/api/v1/report/"+reportID.Hex()+"/media", body, ownerID)
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})

	m := handlers.Media{RDB: rDB, MDB: mDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.AddReportMediaHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	mDB.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(media models.ReportMedia) bool {
		return media.ReportID == reportID && media.MediaType == models.MediaTypeImage && media.StorageID == "ireporter/abc123"
	}))
}

func TestMedia_AddReportMediaHandlerNotOwner(t *testing.T) {
	reportID := primitive.NewObjectID()

	rDB := &mocks.ReportDatabase{}
	rDB.On("FindOne", mock.Anything, bson.M{"_id": reportID}).Return(&models.Report{ID: reportID, UserID: primitive.NewObjectID()}, nil)

	body := []byte(`{"storageId":"ireporter/abc123","mediaType":"image","fileName":"pothole.jpg"}`)
	req := authenticatedRequest(t, "POST", "/api/v1/report/"+reportID.Hex()+"/media", body, primitive.NewObjectID())
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})

	m := handlers.Media{RDB: rDB, MDB: &mocks.ReportMediaDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.AddReportMediaHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestMedia_AddReportMediaHandlerInvalidType(t *testing.T) {
	reportID := primitive.NewObjectID()

	body := []byte(`{"storageId":"ireporter/abc123","mediaType":"audio","fileName":"clip.mp3"}`)
	req := authenticatedRequest(t, "POST", "/api/v1/report/"+reportID.Hex()+"/media", body, primitive.NewObjectID())
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})

	m := handlers.Media{RDB: &mocks.ReportDatabase{}, MDB: &mocks.ReportMediaDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.AddReportMediaHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid media type")
}
