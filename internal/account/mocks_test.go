package account_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"mlaconnect/backend/internal/models"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdatePassword(ctx context.Context, userID, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

func (m *MockStorage) ListMLAs(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) SaveResetOTP(ctx context.Context, userID, otpHash string, ttl time.Duration) error {
	return m.Called(ctx, userID, otpHash, ttl).Error(0)
}

func (m *MockStorage) GetResetOTP(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteResetOTP(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockStorage) RecordOTPFailure(ctx context.Context, userID string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, userID, ttl)
	return args.Get(0).(int64), args.Error(1)
}

type delivery struct {
	Channel, To, Subject, Body string
}

// fakeNotifier records deliveries synchronously.
type fakeNotifier struct {
	mu  sync.Mutex
	out []delivery
}

func (f *fakeNotifier) Email(to, subject, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, delivery{"email", to, subject, body})
}

func (f *fakeNotifier) SMS(to, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, delivery{"sms", to, "", body})
}

func (f *fakeNotifier) deliveries() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivery(nil), f.out...)
}
