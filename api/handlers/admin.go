package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
)

// Admin exposes the admin console endpoints
type Admin struct {
	UDB databases.UserDatabase
	PDB databases.UserProfileDatabase
	RDB databases.ReportDatabase
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginHandler authenticates an admin and issues a signed console token
func (a Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	user, err := a.UDB.FindOne(r.Context(), bson.M{"email": req.Email})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("unknown email"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("password mismatch"))
		return
	}

	profile, err := a.PDB.FindOne(r.Context(), bson.M{"userId": user.ID})
	if err != nil || !profile.IsAdmin {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller is not an admin"))
		return
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		config.ErrorStatus("admin console unavailable", http.StatusInternalServerError, w, fmt.Errorf("JWT_SECRET not configured"))
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"scope": "admin",
		"typ":   "access",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		config.ErrorStatus("failed to sign token", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"admin": map[string]string{
			"id":    user.ID.Hex(),
			"email": user.Email,
		},
	})
}

// AdminStatsHandler returns dashboard counts for the admin console
func (a Admin) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	statuses := []string{
		models.StatusPending,
		models.StatusUnderInvestigation,
		models.StatusResolved,
		models.StatusRejected,
	}
	byStatus := make(map[string]int64, len(statuses))
	var total int64
	for _, status := range statuses {
		count, err := a.RDB.CountDocuments(r.Context(), bson.M{"status": status})
		if err != nil {
			config.ErrorStatus("failed to count reports", http.StatusInternalServerError, w, err)
			return
		}
		byStatus[status] = count
		total += count
	}

	users, err := a.UDB.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to count users", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"totalReports":    total,
		"reportsByStatus": byStatus,
		"totalUsers":      users,
	})
}
