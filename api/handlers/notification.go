package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ireporter/ireporter-api/api"
	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// NotificationHub stores connected users (userId -> *websocket.Conn)
type NotificationHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

var hub = &NotificationHub{
	clients: make(map[string]*websocket.Conn),
	mutex:   sync.Mutex{},
}

// HandleNotificationsWebSocket WebSocket handler for notifications
func HandleNotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade error", "error", err)
		return
	}

	// Get userId from query param
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	// Register client, replacing any previous connection for this user
	hub.mutex.Lock()
	if prev, ok := hub.clients[userID]; ok {
		prev.Close()
	}
	hub.clients[userID] = conn
	hub.mutex.Unlock()
	zap.S().Debugw("user connected to /ws/notifications", "userId", userID)

	// Handle disconnect
	conn.SetCloseHandler(func(code int, text string) error {
		hub.mutex.Lock()
		delete(hub.clients, userID)
		hub.mutex.Unlock()
		zap.S().Debugw("user disconnected from /ws/notifications", "userId", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// sendNotificationToUser pushes a notification to a user's live connection,
// if they have one
func sendNotificationToUser(userID string, notification interface{}) {
	hub.mutex.Lock()
	conn, exists := hub.clients[userID]
	hub.mutex.Unlock()

	if exists {
		err := conn.WriteJSON(map[string]interface{}{
			"event": "new_notification",
			"data":  notification,
		})
		if err != nil {
			zap.S().Warnw("error sending notification over websocket",
				"userId", userID,
				"error", err)
			hub.mutex.Lock()
			delete(hub.clients, userID)
			hub.mutex.Unlock()
			conn.Close()
		}
	}
}

// Notification exposes the notification inbox endpoints
type Notification struct {
	NDB databases.NotificationDatabase
}

// GetUserNotificationsHandler returns the caller's notifications, newest first
func (n Notification) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	notifications, err := n.NDB.Find(r.Context(), bson.M{"userId": callerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusInternalServerError, w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkNotificationReadHandler marks a single notification owned by the caller as read
func (n Notification) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	notificationID := mux.Vars(r)["notification_id"]
	nID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from hex", http.StatusBadRequest, w, err)
		return
	}

	notification, err := n.NDB.FindOne(r.Context(), bson.M{"_id": nID})
	if err != nil {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, err)
		return
	}
	if notification.UserID != callerID {
		config.ErrorStatus("not authorized", http.StatusForbidden, w, fmt.Errorf("caller does not own notification"))
		return
	}

	update := bson.M{"$set": bson.M{"read": true}}
	if err := n.NDB.UpdateOne(r.Context(), bson.M{"_id": nID}, update); err != nil {
		config.ErrorStatus("failed to update notification", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// MarkAllNotificationsReadHandler marks every unread notification of the caller as read
func (n Notification) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	update := bson.M{"$set": bson.M{"read": true}}
	modified, err := n.NDB.UpdateMany(r.Context(), bson.M{"userId": callerID, "read": false}, update)
	if err != nil {
		config.ErrorStatus("failed to update notifications", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"modified": modified,
	})
}

// UnreadCountHandler returns how many unread notifications the caller has
func (n Notification) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	callerID, err := api.CallerID(r)
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	count, err := n.NDB.CountDocuments(r.Context(), bson.M{"userId": callerID, "read": false})
	if err != nil {
		config.ErrorStatus("failed to count notifications", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"unreadCount": count})
}
