package invitation_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/invitation"
	"mlaconnect/backend/internal/localization"
	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
)

var (
	citizen = &models.User{ID: "citizen-1", FullName: "Asha Rao", Role: models.RoleCitizen}
	mla     = &models.User{ID: "mla-1", FullName: "R. Singh", Role: models.RoleMLA}
	now     = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*invitation.Service, *MockStorage, *fakeNotifier, *fakeUploader) {
	t.Helper()
	msgs, err := localization.NewLocalizer()
	require.NoError(t, err)
	store, notifier, uploads := new(MockStorage), &fakeNotifier{}, &fakeUploader{}
	svc := invitation.NewService(store, notifier, uploads, msgs, zap.NewNop(), time.UTC)
	svc.Now = func() time.Time { return now }
	return svc, store, notifier, uploads
}

func assertStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %v", err)
	assert.Equal(t, status, appErr.Status)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

func validInput() invitation.CreateInput {
	return invitation.CreateInput{
		MlaID:         "mla-1",
		InviterName:   "Asha Rao",
		InviterPhone:  "9876543210",
		InviterEmail:  "asha@example.com",
		JobProfile:    "Principal",
		Subject:       "Annual Day",
		EventType:     "School Function",
		EventDate:     "2025-04-02",
		EventTime:     "10:30 AM",
		EventLocation: "Govt. Senior Secondary School",
		Message:       "We would be honoured by your presence.",
	}
}

func TestCreate_Success(t *testing.T) {
	svc, store, notifier, _ := newService(t)
	store.On("GetUserByID", mock.Anything, "mla-1").Return(mla, nil)
	store.On("CreateInvitation", mock.Anything, mock.MatchedBy(func(inv *models.Invitation) bool {
		return inv.Status == models.InvitationSent && inv.EventDate.Equal(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
	})).Return(nil)
	store.On("PublishActivity", mock.Anything, mock.MatchedBy(func(ev models.ActivityEvent) bool {
		return ev.Message == "New invitation from Asha Rao"
	})).Return(nil)

	_, err := svc.Create(context.Background(), citizen, validInput(), nil)

	require.NoError(t, err)
	store.AssertExpectations(t)
	out := notifier.deliveries()
	require.Len(t, out, 2)
	assert.Equal(t, "Invitation for School Function", out[0].Subject)
	assert.Contains(t, out[0].Body, "on 02 Apr 2025 at 10:30 AM")
	assert.Equal(t, "office", out[1].Channel)
}

func TestCreate_PublishFailureIsNotFatal(t *testing.T) {
	svc, store, _, _ := newService(t)
	store.On("GetUserByID", mock.Anything, "mla-1").Return(mla, nil)
	store.On("CreateInvitation", mock.Anything, mock.Anything).Return(nil)
	store.On("PublishActivity", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	_, err := svc.Create(context.Background(), citizen, validInput(), nil)

	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	svc, store, _, uploads := newService(t)
	store.On("GetUserByID", mock.Anything, "citizen-1").Return(citizen, nil)
	store.On("GetUserByID", mock.Anything, "mla-1").Return(mla, nil)
	store.On("CreateInvitation", mock.Anything, mock.Anything).Return(errors.New("db down"))
	uploads.media = []models.MediaFile{{URL: "/uploads/a.png", FileType: models.FileImage}}

	in := validInput()
	in.EventTime = "  "
	_, err := svc.Create(context.Background(), citizen, in, nil)
	assertStatus(t, err, http.StatusBadRequest, "Please fill all required fields.")

	in = validInput()
	in.EventDate = "next tuesday"
	_, err = svc.Create(context.Background(), citizen, in, nil)
	assertStatus(t, err, http.StatusBadRequest, "Invalid event date.")

	in = validInput()
	in.MlaID = "citizen-1"
	_, err = svc.Create(context.Background(), citizen, in, nil)
	assertStatus(t, err, http.StatusNotFound, "MLA not found.")

	_, err = svc.Create(context.Background(), citizen, validInput(), nil)
	assertStatus(t, err, http.StatusInternalServerError, "")
	assert.Equal(t, uploads.media, uploads.removed)
}

func TestMLAInbox_MarksSeen(t *testing.T) {
	svc, store, _, _ := newService(t)
	store.On("ListInvitationsByMLA", mock.Anything, "mla-1").Return([]models.Invitation{
		{ID: "a", Status: models.InvitationSent},
		{ID: "b", Status: models.InvitationAccepted},
		{ID: "c", Status: models.InvitationSeen},
		{ID: "d", Status: models.InvitationExpired},
	}, nil)
	store.On("MarkInvitationsSeen", mock.Anything, "mla-1").Return(int64(1), nil)

	inbox, err := svc.MLAInbox(context.Background(), "mla-1")

	require.NoError(t, err)
	store.AssertExpectations(t)
	assert.Equal(t, invitation.InboxSummary{Total: 4, New: 2, Responded: 1}, inbox.Summary)
}

func TestMLADashboard_ExpiresFirst(t *testing.T) {
	svc, store, _, _ := newService(t)
	expire := store.On("ExpireInvitations", mock.Anything, storage.Scope{MlaID: "mla-1"}, now).Return(int64(1), nil)
	store.On("ListInvitationsByMLA", mock.Anything, "mla-1").Return([]models.Invitation{
		{ID: "a", Status: models.InvitationSeen},
		{ID: "b", Status: models.InvitationExpired},
		{ID: "c", Status: models.InvitationDeclined},
	}, nil).NotBefore(expire)

	d, err := svc.MLADashboard(context.Background(), "mla-1")

	require.NoError(t, err)
	assert.Equal(t, invitation.DashboardSummary{Total: 3, Upcoming: 1, History: 2}, d.Summary)
	assert.Equal(t, "a", d.Data.UpcomingInvitations[0].ID)
}

func TestRespond_DefaultMessage(t *testing.T) {
	svc, store, notifier, _ := newService(t)
	inv := &models.Invitation{ID: "i1", MlaID: "mla-1", Status: models.InvitationSeen, InviterName: "Asha Rao",
		InviterEmail: "asha@example.com", InviterPhone: "9876543210", Subject: "Annual Day", JobProfile: "Principal", EventDate: now.Add(72 * time.Hour)}
	store.On("GetInvitation", mock.Anything, "i1").Return(inv, nil)
	store.On("TransitionInvitation", mock.Anything, inv, models.InvitationSeen).Return(nil)

	got, err := svc.Respond(context.Background(), mla, "i1", invitation.RespondInput{ResponseStatus: models.InvitationDeclined})

	require.NoError(t, err)
	assert.Equal(t, models.InvitationDeclined, got.Status)
	assert.Equal(t, "Thank you for the invitation, but I am unable to attend.", got.MlaResponse)

	out := notifier.deliveries()
	require.Len(t, out, 2)
	assert.Equal(t, "Response to your invitation: Annual Day", out[0].Subject)
	assert.Equal(t, "sms", out[1].Channel)
	assert.Equal(t, "9876543210", out[1].To)
}

func TestRespond_SubjectOverride(t *testing.T) {
	svc, store, notifier, _ := newService(t)
	inv := &models.Invitation{ID: "i1", MlaID: "mla-1", Status: models.InvitationSent, Subject: "Annual Day", EventDate: now.Add(72 * time.Hour)}
	store.On("GetInvitation", mock.Anything, "i1").Return(inv, nil)
	store.On("TransitionInvitation", mock.Anything, inv, models.InvitationSent).Return(nil)

	got, err := svc.Respond(context.Background(), mla, "i1", invitation.RespondInput{
		ResponseStatus:  models.InvitationAccepted,
		ResponseMessage: "See you there.",
		Subject:         "Annual Day 2025",
	})

	require.NoError(t, err)
	assert.Equal(t, "See you there.", got.MlaResponse)
	assert.Equal(t, "Response to your invitation: Annual Day 2025", notifier.deliveries()[0].Subject)
}

func TestRespond_Rejections(t *testing.T) {
	svc, store, _, _ := newService(t)
	store.On("GetInvitation", mock.Anything, "missing").Return(nil, storage.ErrNotFound)
	store.On("GetInvitation", mock.Anything, "other").Return(&models.Invitation{ID: "other", MlaID: "mla-2", Status: models.InvitationSent}, nil)
	store.On("GetInvitation", mock.Anything, "done").Return(&models.Invitation{ID: "done", MlaID: "mla-1", Status: models.InvitationExpired}, nil)

	_, err := svc.Respond(context.Background(), mla, "missing", invitation.RespondInput{ResponseStatus: "Maybe"})
	assertStatus(t, err, http.StatusBadRequest, "A valid response status ('Accepted' or 'Declined') is required.")

	_, err = svc.Respond(context.Background(), mla, "missing", invitation.RespondInput{ResponseStatus: models.InvitationAccepted})
	assertStatus(t, err, http.StatusNotFound, "Invitation not found.")

	_, err = svc.Respond(context.Background(), mla, "other", invitation.RespondInput{ResponseStatus: models.InvitationAccepted})
	assertStatus(t, err, http.StatusForbidden, "")

	_, err = svc.Respond(context.Background(), mla, "done", invitation.RespondInput{ResponseStatus: models.InvitationAccepted})
	assertStatus(t, err, http.StatusBadRequest, "This invitation has already been processed (Status: Expired) and cannot be changed.")

	store.AssertNotCalled(t, "TransitionInvitation", mock.Anything, mock.Anything, mock.Anything)
}

func TestRespond_PastEventIsExpired(t *testing.T) {
	svc, store, notifier, _ := newService(t)
	inv := &models.Invitation{ID: "i1", MlaID: "mla-1", Status: models.InvitationSeen, EventDate: now.Add(-time.Hour)}
	store.On("GetInvitation", mock.Anything, "i1").Return(inv, nil)

	_, err := svc.Respond(context.Background(), mla, "i1", invitation.RespondInput{ResponseStatus: models.InvitationAccepted})

	assertStatus(t, err, http.StatusBadRequest, "This invitation has already been processed (Status: Expired) and cannot be changed.")
	store.AssertNotCalled(t, "TransitionInvitation", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, notifier.deliveries())
}

func TestRespond_ConcurrentChange(t *testing.T) {
	svc, store, notifier, _ := newService(t)
	inv := &models.Invitation{ID: "i1", MlaID: "mla-1", Status: models.InvitationSent, EventDate: now.Add(time.Hour)}
	store.On("GetInvitation", mock.Anything, "i1").Return(inv, nil)
	store.On("TransitionInvitation", mock.Anything, inv, models.InvitationSent).Return(storage.ErrStale)

	_, err := svc.Respond(context.Background(), mla, "i1", invitation.RespondInput{ResponseStatus: models.InvitationDeclined})

	assertStatus(t, err, http.StatusConflict, "This invitation has already been processed and cannot be changed.")
	assert.Empty(t, notifier.deliveries())
}

func TestDetail_Forbidden(t *testing.T) {
	svc, store, _, _ := newService(t)
	store.On("GetInvitation", mock.Anything, "i1").Return(&models.Invitation{ID: "i1", MlaID: "mla-2"}, nil)

	_, err := svc.Detail(context.Background(), mla, "i1")

	assertStatus(t, err, http.StatusForbidden, "Forbidden: You are not authorized to view this invitation.")
}

func TestCitizenHistory(t *testing.T) {
	svc, store, _, _ := newService(t)
	store.On("ListInvitationsBySubmitter", mock.Anything, "citizen-1").Return([]models.Invitation{{ID: "x"}}, nil)

	list, err := svc.CitizenHistory(context.Background(), "citizen-1")

	require.NoError(t, err)
	assert.Len(t, list, 1)
}
