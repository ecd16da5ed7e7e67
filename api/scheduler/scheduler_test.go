package scheduler_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ireporter/ireporter-api/api/mailer"
	"github.com/ireporter/ireporter-api/api/scheduler"
	"github.com/ireporter/ireporter-api/databases/mocks"
	"github.com/ireporter/ireporter-api/models"
)

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (c *captureSender) Send(e mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, e)
	return nil
}

func (c *captureSender) all() []mailer.Email {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mailer.Email(nil), c.sent...)
}

func TestSendAdminDigest(t *testing.T) {
	adminUserID := primitive.NewObjectID()

	rDB := &mocks.ReportDatabase{}
	pDB := &mocks.UserProfileDatabase{}
	uDB := &mocks.UserDatabase{}

	rDB.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusPending}).Return(int64(5), nil)
	pDB.On("Find", mock.Anything, bson.M{"isAdmin": true}).Return([]models.UserProfile{
		{UserID: adminUserID, IsAdmin: true},
	}, nil)
	uDB.On("FindOne", mock.Anything, bson.M{"_id": adminUserID}).Return(&models.User{
		ID:    adminUserID,
		Name:  "Nia",
		Email: "nia@example.com",
	}, nil)

	sender := &captureSender{}
	m := mailer.NewWithSender(8, sender)
	m.Start()

	s := scheduler.NewScheduler(rDB, pDB, uDB, m)
	s.SendAdminDigest()
	m.Stop()

	sent := sender.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, "nia@example.com", sent[0].ToEmail)
	assert.Contains(t, sent[0].HTML, "5 pending reports")
}

func TestSendAdminDigestSkipsWhenNothingPending(t *testing.T) {
	rDB := &mocks.ReportDatabase{}
	pDB := &mocks.UserProfileDatabase{}

	rDB.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusPending}).Return(int64(0), nil)

	sender := &captureSender{}
	m := mailer.NewWithSender(8, sender)
	m.Start()

	s := scheduler.NewScheduler(rDB, pDB, &mocks.UserDatabase{}, m)
	s.SendAdminDigest()
	m.Stop()

	assert.Empty(t, sender.all())
	pDB.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}
