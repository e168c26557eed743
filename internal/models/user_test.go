package models_test

import (
	"mlaconnect/backend/internal/models"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Email:    "asha@example.com",
		FullName: "Asha Rao",
		Phone:    models.Phone{CountryCode: "+91", Number: "9876543210"},
		Role:     models.RoleCitizen,
	}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Email: "mla@example.com", Role: models.RoleMLA}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID, "BeforeCreate should preserve existing ID")
}

// TestSubmissionBeforeCreate_DefaultsStatus covers the hooks of the three citizen submissions.
func TestSubmissionBeforeCreate_DefaultsStatus(t *testing.T) {
	meeting := &models.MeetingRequest{}
	complaint := &models.Complaint{}
	invitation := &models.Invitation{}
	event := &models.CalendarEvent{}

	assert.NoError(t, meeting.BeforeCreate(nil))
	assert.NoError(t, complaint.BeforeCreate(nil))
	assert.NoError(t, invitation.BeforeCreate(nil))
	assert.NoError(t, event.BeforeCreate(nil))

	assert.Equal(t, models.MeetingPending, meeting.Status)
	assert.Equal(t, models.ComplaintSubmitted, complaint.Status)
	assert.Equal(t, models.InvitationSent, invitation.Status)

	ids := map[string]bool{meeting.ID: true, complaint.ID: true, invitation.ID: true, event.ID: true}
	assert.Len(t, ids, 4, "each record gets its own UUID")
}

// TestUserStructTags verifies that struct tags are correctly defined for GORM and JSON.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	idField, found := userType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	emailField, found := userType.FieldByName("Email")
	assert.True(t, found)
	assert.Contains(t, emailField.Tag.Get("gorm"), "uniqueIndex")

	passwordField, found := userType.FieldByName("PasswordHash")
	assert.True(t, found)
	assert.Equal(t, "-", passwordField.Tag.Get("json"), "password hash must never be serialized")

	tehsilsField, found := userType.FieldByName("Tehsils")
	assert.True(t, found)
	assert.Contains(t, tehsilsField.Tag.Get("gorm"), "type:text[]")

	phoneType := reflect.TypeOf(models.Phone{})
	numberField, _ := phoneType.FieldByName("Number")
	assert.Contains(t, numberField.Tag.Get("gorm"), "uniqueIndex")
}

func TestUserServesTehsil(t *testing.T) {
	tests := []struct {
		name    string
		tehsils pq.StringArray
		tehsil  string
		want    bool
	}{
		{"no tehsils on record", nil, "Nadaun", true},
		{"listed", pq.StringArray{"Nadaun", "Sujanpur"}, "Sujanpur", true},
		{"not listed", pq.StringArray{"Nadaun"}, "Barsar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &models.User{Role: models.RoleMLA, Tehsils: tt.tehsils}
			assert.Equal(t, tt.want, u.ServesTehsil(tt.tehsil))
		})
	}
}

func TestUserListing_NeverNilTehsils(t *testing.T) {
	u := &models.User{ID: "mla-1", FullName: "R. Singh", Constituency: "Hamirpur"}

	listing := u.Listing()

	assert.Equal(t, "mla-1", listing.ID)
	assert.NotNil(t, listing.Tehsils)
	assert.Empty(t, listing.Tehsils)
}

func TestUserIsMLA(t *testing.T) {
	var nilUser *models.User
	assert.False(t, nilUser.IsMLA())
	assert.False(t, (&models.User{Role: models.RoleCitizen}).IsMLA())
	assert.True(t, (&models.User{Role: models.RoleMLA}).IsMLA())
}

// BenchmarkUserBeforeCreate measures UUID generation performance.
func BenchmarkUserBeforeCreate(b *testing.B) {
	user := &models.User{Email: "bench@example.com"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		user.ID = ""
		_ = user.BeforeCreate(nil)
	}
}
