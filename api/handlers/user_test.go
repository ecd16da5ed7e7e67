package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ireporter/ireporter-api/api/handlers"
	"github.com/ireporter/ireporter-api/databases/mocks"
	"github.com/ireporter/ireporter-api/models"
)

func TestUser_UserCreateHandler(t *testing.T) {
	uDB := &mocks.UserDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"email": "amina@example.com"}).Return(nil, errors.New("mongo: no documents in result"))
	uDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.User")).Return(nil)

	body := []byte(`{"name":"Amina","email":"Amina@Example.com","password":"hunter22"}`)
	req, _ := http.NewRequest("POST", "/api/v1/user/create-user", bytes.NewReader(body))

	u := handlers.User{DB: uDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	uDB.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(user models.User) bool {
		// email is normalized and the password never stored in the clear
		return user.Email == "amina@example.com" && user.Password != "hunter22" && user.Password != ""
	}))
}

func TestUser_UserCreateHandlerDuplicateEmail(t *testing.T) {
	uDB := &mocks.UserDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"email": "amina@example.com"}).Return(&models.User{Email: "amina@example.com"}, nil)

	body := []byte(`{"name":"Amina","email":"amina@example.com","password":"hunter22"}`)
	req, _ := http.NewRequest("POST", "/api/v1/user/create-user", bytes.NewReader(body))

	u := handlers.User{DB: uDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	uDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestUser_UserCreateHandlerMissingFields(t *testing.T) {
	u := handlers.User{DB: &mocks.UserDatabase{}}

	body := []byte(`{"email":"amina@example.com"}`)
	req, _ := http.NewRequest("POST", "/api/v1/user/create-user", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_UserCheckEmailHandler(t *testing.T) {
	uDB := &mocks.UserDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"email": "known@example.com"}).Return(&models.User{Email: "known@example.com"}, nil)
	uDB.On("FindOne", mock.Anything, bson.M{"email": "unknown@example.com"}).Return(nil, errors.New("mongo: no documents in result"))

	u := handlers.User{DB: uDB}

	req, _ := http.NewRequest("POST", "/api/v1/user/check-user", bytes.NewReader([]byte(`{"email":"known@example.com"}`)))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCheckEmailHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists": true}`, rr.Body.String())

	req, _ = http.NewRequest("POST", "/api/v1/user/check-user", bytes.NewReader([]byte(`{"email":"unknown@example.com"}`)))
	rr = httptest.NewRecorder()
	http.HandlerFunc(u.UserCheckEmailHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists": false}`, rr.Body.String())
}
