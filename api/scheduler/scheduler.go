// Package scheduler runs periodic background jobs for the reporting platform.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/ireporter/ireporter-api/api/mailer"
	"github.com/ireporter/ireporter-api/databases"
	"github.com/ireporter/ireporter-api/models"
	templates "github.com/ireporter/ireporter-api/templates/html"
)

// Scheduler handles periodic background jobs for the reporting platform
type Scheduler struct {
	cron   *cron.Cron
	RDB    databases.ReportDatabase
	PDB    databases.UserProfileDatabase
	UDB    databases.UserDatabase
	Mailer *mailer.Mailer
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	rDB databases.ReportDatabase,
	pDB databases.UserProfileDatabase,
	uDB databases.UserDatabase,
	m *mailer.Mailer,
) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		RDB:    rDB,
		PDB:    pDB,
		UDB:    uDB,
		Mailer: m,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Email admins a pending-reports digest daily at 8 AM UTC
	_, err := s.cron.AddFunc("0 8 * * *", s.SendAdminDigest)
	if err != nil {
		zap.S().Errorw("failed to register admin digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("report digest scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("report digest scheduler stopped")
}

// SendAdminDigest emails every admin the count of reports still pending triage
func (s *Scheduler) SendAdminDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pending, err := s.RDB.CountDocuments(ctx, bson.M{"status": models.StatusPending})
	if err != nil {
		zap.S().Errorw("failed to count pending reports", "error", err)
		return
	}
	if pending == 0 {
		zap.S().Debug("no pending reports, skipping admin digest")
		return
	}

	admins, err := s.PDB.Find(ctx, bson.M{"isAdmin": true})
	if err != nil {
		zap.S().Errorw("failed to find admin profiles", "error", err)
		return
	}

	for _, admin := range admins {
		user, err := s.UDB.FindOne(ctx, bson.M{"_id": admin.UserID})
		if err != nil {
			zap.S().Warnw("failed to resolve admin user for digest",
				"userId", admin.UserID.Hex(),
				"error", err)
			continue
		}
		s.Mailer.Enqueue(mailer.Email{
			ToName:    user.Name,
			ToEmail:   user.Email,
			Subject:   "iReporter Daily Digest",
			PlainText: "There are pending reports awaiting triage.",
			HTML:      templates.RenderAdminDigestEmail(pending),
		})
	}

	zap.S().Infow("admin digest queued",
		"pendingReports", pending,
		"admins", len(admins))
}
