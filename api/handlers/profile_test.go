package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ireporter/ireporter-api/api/handlers"
	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases/mocks"
	"github.com/ireporter/ireporter-api/models"
)

func TestProfile_MakeUserAdminHandlerBootstrap(t *testing.T) {
	callerID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()

	pDB := &mocks.UserProfileDatabase{}
	uDB := &mocks.UserDatabase{}

	// no admins exist yet, so any authenticated caller may bootstrap
	pDB.On("CountDocuments", mock.Anything, bson.M{"isAdmin": true}).Return(int64(0), nil)
	uDB.On("FindOne", mock.Anything, bson.M{"_id": targetID}).Return(&models.User{ID: targetID}, nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": targetID}).Return(nil, errors.New("mongo: no documents in result"))
	pDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.UserProfile")).Return(nil)

	req := authenticatedRequest(t, "POST", "/api/v1/users/"+targetID.Hex()+"/make-admin", nil, callerID)
	req = mux.SetURLVars(req, map[string]string{"user_id": targetID.Hex()})

	p := handlers.Profile{PDB: pDB, UDB: uDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.MakeUserAdminHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	pDB.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(profile models.UserProfile) bool {
		return profile.UserID == targetID && profile.IsAdmin
	}))
}

func TestProfile_MakeUserAdminHandlerNonAdminAfterBootstrap(t *testing.T) {
	callerID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()

	pDB := &mocks.UserProfileDatabase{}

	pDB.On("CountDocuments", mock.Anything, bson.M{"isAdmin": true}).Return(int64(1), nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": callerID}).Return(&models.UserProfile{UserID: callerID, IsAdmin: false}, nil)

	req := authenticatedRequest(t, "POST", "/api/v1/users/"+targetID.Hex()+"/make-admin", nil, callerID)
	req = mux.SetURLVars(req, map[string]string{"user_id": targetID.Hex()})

	p := handlers.Profile{PDB: pDB, UDB: &mocks.UserDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.MakeUserAdminHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	pDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	pDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfile_MakeUserAdminHandlerExistingAdmin(t *testing.T) {
	callerID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	targetProfileID := primitive.NewObjectID()

	pDB := &mocks.UserProfileDatabase{}
	uDB := &mocks.UserDatabase{}

	pDB.On("CountDocuments", mock.Anything, bson.M{"isAdmin": true}).Return(int64(1), nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": callerID}).Return(&models.UserProfile{UserID: callerID, IsAdmin: true}, nil)
	uDB.On("FindOne", mock.Anything, bson.M{"_id": targetID}).Return(&models.User{ID: targetID}, nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": targetID}).Return(&models.UserProfile{ID: targetProfileID, UserID: targetID}, nil)
	pDB.On("UpdateOne", mock.Anything, bson.M{"_id": targetProfileID}, bson.M{"$set": bson.M{"isAdmin": true}}).Return(nil)

	req := authenticatedRequest(t, "POST", "/api/v1/users/"+targetID.Hex()+"/make-admin", nil, callerID)
	req = mux.SetURLVars(req, map[string]string{"user_id": targetID.Hex()})

	p := handlers.Profile{PDB: pDB, UDB: uDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.MakeUserAdminHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	pDB.AssertExpectations(t)
}

func TestProfile_PromoteSeedHandlerWrongEmail(t *testing.T) {
	callerID := primitive.NewObjectID()

	uDB := &mocks.UserDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"_id": callerID}).Return(&models.User{ID: callerID, Email: "someone@example.com"}, nil)

	req := authenticatedRequest(t, "POST", "/api/v1/profile/promote-seed", nil, callerID)

	p := handlers.Profile{
		PDB:    &mocks.UserProfileDatabase{},
		UDB:    uDB,
		Config: config.Config{AdminSeedEmail: "seed@example.com"},
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PromoteSeedHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestProfile_PromoteSeedHandlerDisabled(t *testing.T) {
	callerID := primitive.NewObjectID()

	req := authenticatedRequest(t, "POST", "/api/v1/profile/promote-seed", nil, callerID)

	p := handlers.Profile{PDB: &mocks.UserProfileDatabase{}, UDB: &mocks.UserDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.PromoteSeedHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "seed promotion disabled")
}

func TestProfile_UpdateProfileHandlerFirstSave(t *testing.T) {
	callerID := primitive.NewObjectID()

	pDB := &mocks.UserProfileDatabase{}
	pDB.On("FindOne", mock.Anything, bson.M{"userId": callerID}).Return(nil, errors.New("mongo: no documents in result"))
	pDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.UserProfile")).Return(nil)

	req := authenticatedRequest(t, "PUT", "/api/v1/profile", []byte(`{"phoneNumber":"+254700000000"}`), callerID)

	p := handlers.Profile{PDB: pDB, UDB: &mocks.UserDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateProfileHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	pDB.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(profile models.UserProfile) bool {
		return profile.UserID == callerID && profile.PhoneNumber == "+254700000000" && !profile.IsAdmin
	}))
}

func TestProfile_CurrentProfileHandlerNoProfile(t *testing.T) {
	callerID := primitive.NewObjectID()

	uDB := &mocks.UserDatabase{}
	pDB := &mocks.UserProfileDatabase{}
	uDB.On("FindOne", mock.Anything, bson.M{"_id": callerID}).Return(&models.User{ID: callerID, Name: "Amina", Email: "amina@example.com"}, nil)
	pDB.On("FindOne", mock.Anything, bson.M{"userId": callerID}).Return(nil, errors.New("mongo: no documents in result"))

	req := authenticatedRequest(t, "GET", "/api/v1/profile", nil, callerID)

	p := handlers.Profile{PDB: pDB, UDB: uDB}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.CurrentProfileHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"profile":null`)
	assert.Contains(t, rr.Body.String(), "amina@example.com")
}
