package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ireporter/ireporter-api/api"
	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
)

// Profile exposes the user profile and admin promotion endpoints
type Profile struct {
	PDB    databases.UserProfileDatabase
	UDB    databases.UserDatabase
	Config config.Config
}

type profileResponse struct {
	ID      primitive.ObjectID  `json:"_id"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Profile *models.UserProfile `json:"profile"`
}

type updateProfileRequest struct {
	PhoneNumber *string `json:"phoneNumber"`
	Bio         *string `json:"bio"`
}

// CurrentProfileHandler returns the caller's account joined with their profile.
// The profile is nil until the user first saves one.
func (p Profile) CurrentProfileHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	user, err := p.UDB.FindOne(r.Context(), bson.M{"_id": callerID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	resp := profileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
	if profile, err := p.PDB.FindOne(r.Context(), bson.M{"userId": callerID}); err == nil {
		resp.Profile = profile
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdateProfileHandler patches the caller's profile, creating it on first save.
// Only fields present in the request body are changed.
func (p Profile) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	existing, err := p.PDB.FindOne(r.Context(), bson.M{"userId": callerID})
	if err != nil {
		// first save creates the profile
		profile := models.UserProfile{
			ID:        primitive.NewObjectID(),
			UserID:    callerID,
			IsAdmin:   false,
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		}
		if req.PhoneNumber != nil {
			profile.PhoneNumber = *req.PhoneNumber
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if err := p.PDB.InsertOne(r.Context(), profile); err != nil {
			config.ErrorStatus("failed to create profile", http.StatusInternalServerError, w, err)
			return
		}
	} else {
		set := bson.M{}
		if req.PhoneNumber != nil {
			set["phoneNumber"] = *req.PhoneNumber
		}
		if req.Bio != nil {
			set["bio"] = *req.Bio
		}
		if len(set) > 0 {
			if err := p.PDB.UpdateOne(r.Context(), bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
				config.ErrorStatus("failed to update profile", http.StatusInternalServerError, w, err)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// MakeUserAdminHandler grants admin to a target user. When no admins exist yet
// any authenticated caller may bootstrap the first one, afterwards only admins
// may promote.
func (p Profile) MakeUserAdminHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	targetID := mux.Vars(r)["user_id"]
	tID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	adminCount, err := p.PDB.CountDocuments(r.Context(), bson.M{"isAdmin": true})
	if err != nil {
		config.ErrorStatus("failed to count admins", http.StatusInternalServerError, w, err)
		return
	}
	if adminCount > 0 {
		callerProfile, err := p.PDB.FindOne(r.Context(), bson.M{"userId": callerID})
		if err != nil || !callerProfile.IsAdmin {
			config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller is not an admin"))
			return
		}
	}

	if _, err := p.UDB.FindOne(r.Context(), bson.M{"_id": tID}); err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if err := p.grantAdmin(r.Context(), tID); err != nil {
		config.ErrorStatus("failed to promote user", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// PromoteSeedHandler promotes the caller to admin when their email matches the
// configured seed admin address. Disabled when no seed email is configured.
func (p Profile) PromoteSeedHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	if p.Config.AdminSeedEmail == "" {
		config.ErrorStatus("seed promotion disabled", http.StatusForbidden, w, fmt.Errorf("no seed admin email configured"))
		return
	}

	user, err := p.UDB.FindOne(r.Context(), bson.M{"_id": callerID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if !strings.EqualFold(user.Email, p.Config.AdminSeedEmail) {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller is not the seed admin"))
		return
	}

	if err := p.grantAdmin(r.Context(), callerID); err != nil {
		config.ErrorStatus("failed to promote user", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"promoted": true})
}

func (p Profile) grantAdmin(ctx context.Context, userID primitive.ObjectID) error {
	existing, err := p.PDB.FindOne(ctx, bson.M{"userId": userID})
	if err != nil {
		profile := models.UserProfile{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			IsAdmin:   true,
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		}
		return p.PDB.InsertOne(ctx, profile)
	}
	return p.PDB.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{"isAdmin": true}})
}
