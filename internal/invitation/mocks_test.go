package invitation_test

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockStorage) GetInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStorage) TransitionInvitation(ctx context.Context, inv *models.Invitation, from models.InvitationStatus) error {
	return m.Called(ctx, inv, from).Error(0)
}

func (m *MockStorage) ListInvitationsBySubmitter(ctx context.Context, userID string) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockStorage) ListInvitationsByMLA(ctx context.Context, mlaID string) ([]models.Invitation, error) {
	args := m.Called(ctx, mlaID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockStorage) MarkInvitationsSeen(ctx context.Context, mlaID string) (int64, error) {
	args := m.Called(ctx, mlaID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) ExpireInvitations(ctx context.Context, scope storage.Scope, now time.Time) (int64, error) {
	args := m.Called(ctx, scope, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) PublishActivity(ctx context.Context, ev models.ActivityEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type delivery struct {
	Channel, To, Subject, Body string
}

type fakeNotifier struct {
	mu  sync.Mutex
	out []delivery
}

func (f *fakeNotifier) add(d delivery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, d)
}

func (f *fakeNotifier) Email(to, subject, body string) { f.add(delivery{"email", to, subject, body}) }
func (f *fakeNotifier) SMS(to, body string)            { f.add(delivery{"sms", to, "", body}) }
func (f *fakeNotifier) AlertOffice(text string)        { f.add(delivery{"office", "", "", text}) }

func (f *fakeNotifier) deliveries() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivery(nil), f.out...)
}

type fakeUploader struct {
	media   []models.MediaFile
	err     error
	removed []models.MediaFile
}

func (f *fakeUploader) Save(files []*multipart.FileHeader) ([]models.MediaFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.media, nil
}

func (f *fakeUploader) Remove(media []models.MediaFile) {
	f.removed = append(f.removed, media...)
}
