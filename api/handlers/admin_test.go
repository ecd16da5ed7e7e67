package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/ireporter/ireporter-api/api/handlers"
	"github.com/ireporter/ireporter-api/databases/mocks"
	"github.com/ireporter/ireporter-api/models"
)

func TestAdmin_AdminLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)

	uDB := &mocks.UserDatabase{}
	pDB := &mocks.UserProfileDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"email": "admin@example.com"}).Return(&models.User{
		ID:       userID,
		Email:    "admin@example.com",
		Password: string(hash),
	}, nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": userID}).Return(&models.UserProfile{UserID: userID, IsAdmin: true}, nil)

	body := []byte(`{"email":"admin@example.com","password":"correct-horse"}`)
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(body))

	a := handlers.Admin{UDB: uDB, PDB: pDB, RDB: &mocks.ReportDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string            `json:"token"`
		Admin map[string]string `json:"admin"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, userID.Hex(), resp.Admin["id"])

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["scope"])
	assert.Equal(t, userID.Hex(), claims["sub"])
}

func TestAdmin_AdminLoginHandlerWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)

	uDB := &mocks.UserDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"email": "admin@example.com"}).Return(&models.User{
		ID:       userID,
		Email:    "admin@example.com",
		Password: string(hash),
	}, nil)

	body := []byte(`{"email":"admin@example.com","password":"battery-staple"}`)
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(body))

	a := handlers.Admin{UDB: uDB, PDB: &mocks.UserProfileDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_AdminLoginHandlerNotAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)

	uDB := &mocks.UserDatabase{}
	pDB := &mocks.UserProfileDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"email": "citizen@example.com"}).Return(&models.User{
		ID:       userID,
		Email:    "citizen@example.com",
		Password: string(hash),
	}, nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": userID}).Return(nil, errors.New("mongo: no documents in result"))

	body := []byte(`{"email":"citizen@example.com","password":"correct-horse"}`)
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(body))

	a := handlers.Admin{UDB: uDB, PDB: pDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdmin_AdminStatsHandler(t *testing.T) {
	uDB := &mocks.UserDatabase{}
	rDB := &mocks.ReportDatabase{}

	rDB.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusPending}).Return(int64(4), nil)
	rDB.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusUnderInvestigation}).Return(int64(2), nil)
	rDB.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusResolved}).Return(int64(7), nil)
	rDB.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusRejected}).Return(int64(1), nil)
	uDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(25), nil)

	req, _ := http.NewRequest("GET", "/api/v1/admin/stats", nil)

	a := handlers.Admin{UDB: uDB, PDB: &mocks.UserProfileDatabase{}, RDB: rDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.AdminStatsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		TotalReports    int64            `json:"totalReports"`
		ReportsByStatus map[string]int64 `json:"reportsByStatus"`
		TotalUsers      int64            `json:"totalUsers"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(14), resp.TotalReports)
	assert.Equal(t, int64(4), resp.ReportsByStatus[models.StatusPending])
	assert.Equal(t, int64(25), resp.TotalUsers)
}
