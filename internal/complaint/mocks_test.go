package complaint_test

import (
	"context"
	"mime/multipart"
	"sync"

	"github.com/stretchr/testify/mock"

	"mlaconnect/backend/internal/models"
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

func (m *MockStorage) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockStorage) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) TransitionComplaint(ctx context.Context, c *models.Complaint, from models.ComplaintStatus) error {
	return m.Called(ctx, c, from).Error(0)
}

func (m *MockStorage) ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsByMLA(ctx context.Context, mlaID string) ([]models.Complaint, error) {
	args := m.Called(ctx, mlaID)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListActionedComplaints(ctx context.Context, mlaID string) ([]models.Complaint, error) {
	args := m.Called(ctx, mlaID)
	return args.Get(0).([]models.Complaint), args.Error(1)
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
