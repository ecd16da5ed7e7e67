package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ireporter/ireporter-api/api"
	"github.com/ireporter/ireporter-api/api/mailer"
	"github.com/ireporter/ireporter-api/api/scheduler"
	"github.com/ireporter/ireporter-api/config"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Mailer    *mailer.Mailer
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	rDB := databases.NewReportDatabase(a.dbHelper)
	mDB := databases.NewReportMediaDatabase(a.dbHelper)
	nDB := databases.NewNotificationDatabase(a.dbHelper)
	pDB := databases.NewUserProfileDatabase(a.dbHelper)
	uDB := databases.NewUserDatabase(a.dbHelper)

	mediaStore, err := NewCloudinaryStore()
	if err != nil {
		// media URLs degrade to empty strings without cloudinary credentials
		zap.S().Warnw("cloudinary store unavailable", "error", err)
	}

	u := User{DB: uDB}
	report := Report{RDB: rDB, MDB: mDB, NDB: nDB, PDB: pDB, UDB: uDB, Media: mediaStore, Mailer: a.Mailer}
	notification := Notification{NDB: nDB}
	profile := Profile{PDB: pDB, UDB: uDB, Config: a.Config}
	media := Media{RDB: rDB, MDB: mDB}
	admin := Admin{UDB: uDB, PDB: pDB, RDB: rDB}
	assistant := AI{Client: NewOpenAIClient()}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.HandleFunc("/ws/notifications", HandleNotificationsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/reports", api.Middleware(http.HandlerFunc(report.UserReportsHandler))).Methods("GET")
	apiCreate.Handle("/reports/all", api.Middleware(http.HandlerFunc(report.AllReportsHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}/status", api.Middleware(http.HandlerFunc(report.UpdateReportStatusHandler))).Methods("PUT")
	apiCreate.Handle("/report/{report_id}/media", api.Middleware(http.HandlerFunc(media.AddReportMediaHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.DeleteReportHandler))).Methods("DELETE")
	apiCreate.Handle("/media/upload-signature", api.Middleware(http.HandlerFunc(media.GenerateUploadSignature))).Methods("POST")

	apiCreate.Handle("/notifications", api.Middleware(http.HandlerFunc(notification.GetUserNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/notifications/unread-count", api.Middleware(http.HandlerFunc(notification.UnreadCountHandler))).Methods("GET")
	apiCreate.Handle("/notifications/read-all", api.Middleware(http.HandlerFunc(notification.MarkAllNotificationsReadHandler))).Methods("PUT")
	apiCreate.Handle("/notifications/{notification_id}/read", api.Middleware(http.HandlerFunc(notification.MarkNotificationReadHandler))).Methods("PUT")

	apiCreate.Handle("/profile", api.Middleware(http.HandlerFunc(profile.CurrentProfileHandler))).Methods("GET")
	apiCreate.Handle("/profile", api.Middleware(http.HandlerFunc(profile.UpdateProfileHandler))).Methods("PUT")
	apiCreate.Handle("/profile/promote-seed", api.Middleware(http.HandlerFunc(profile.PromoteSeedHandler))).Methods("POST")
	apiCreate.Handle("/users/{user_id}/make-admin", api.Middleware(http.HandlerFunc(profile.MakeUserAdminHandler))).Methods("POST")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/stats", api.AdminMiddleware(http.HandlerFunc(admin.AdminStatsHandler))).Methods("GET")

	apiCreate.Handle("/ai/analyze", api.Middleware(http.HandlerFunc(assistant.AnalyzeReportHandler))).Methods("POST")
	apiCreate.Handle("/ai/chat", api.Middleware(http.HandlerFunc(assistant.ChatAssistantHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("ireporter-api has connected to the database")

	// status-update emails are fire-and-forget through the mailer queue
	a.Mailer = mailer.New(64)
	a.Mailer.Start()

	a.Scheduler = scheduler.NewScheduler(
		databases.NewReportDatabase(a.dbHelper),
		databases.NewUserProfileDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		a.Mailer,
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
