// Package account handles citizen and MLA registration, sessions and
// password management.
package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/auth"
	"mlaconnect/backend/internal/config"
	"mlaconnect/backend/internal/localization"
	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
	"mlaconnect/backend/internal/validate"
)

// Storage is the subset of storage.Storage the account service needs.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
	ListMLAs(ctx context.Context) ([]models.User, error)

	SaveResetOTP(ctx context.Context, userID, otpHash string, ttl time.Duration) error
	GetResetOTP(ctx context.Context, userID string) (string, error)
	DeleteResetOTP(ctx context.Context, userID string) error
	RecordOTPFailure(ctx context.Context, userID string, ttl time.Duration) (int64, error)
}

// Notifier delivers messages without blocking the caller.
type Notifier interface {
	Email(to, subject, body string)
	SMS(to, body string)
}

type Service struct {
	store     Storage
	notifier  Notifier
	msgs      *localization.Localizer
	log       *zap.Logger
	jwtSecret string
	mlaKey    string
}

func NewService(s Storage, n Notifier, msgs *localization.Localizer, log *zap.Logger, jwtSecret, mlaKey string) *Service {
	return &Service{store: s, notifier: n, msgs: msgs, log: log, jwtSecret: jwtSecret, mlaKey: mlaKey}
}

// SignupInput carries both signup forms. MLA-only fields are ignored for citizens.
type SignupInput struct {
	Email           string   `json:"email" form:"email"`
	FullName        string   `json:"fullName" form:"fullName"`
	Password        string   `json:"password" form:"password"`
	ConfirmPassword string   `json:"confirmPassword" form:"confirmPassword"`
	Phone           string   `json:"phone" form:"phone"`
	Gender          string   `json:"gender" form:"gender"`
	District        string   `json:"district" form:"district"`
	Address         string   `json:"address" form:"address"`
	JobProfile      string   `json:"jobProfile" form:"jobProfile"`
	MLAKey          string   `json:"mlaKey" form:"mlaKey"`
	Constituency    string   `json:"constituency" form:"constituency"`
	Tehsils         []string `json:"tehsils" form:"tehsils"`
}

// Session is a freshly issued token and the account it belongs to.
type Session struct {
	Token string
	User  *models.User
}

func (s *Service) SignupCitizen(ctx context.Context, in SignupInput) (*Session, error) {
	if validate.Blank(in.Email, in.FullName, in.Password, in.ConfirmPassword, in.Phone, in.Gender, in.Address) {
		return nil, apperror.BadRequest("Please enter all entries")
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperror.BadRequest("Your password and confirm password do not match.")
	}
	if err := checkProfileFields(in); err != nil {
		return nil, err
	}

	user := newUser(in, models.RoleCitizen)
	if err := s.create(ctx, user, in.Password, "User with this email already exists."); err != nil {
		return nil, err
	}
	return s.issue(user, config.LoginTokenTTL)
}

// SignupMLA requires the shared MLA key. With no key configured, MLA signup is closed.
func (s *Service) SignupMLA(ctx context.Context, in SignupInput) (*Session, error) {
	if s.mlaKey == "" || subtle.ConstantTimeCompare([]byte(in.MLAKey), []byte(s.mlaKey)) != 1 {
		return nil, apperror.Forbidden("Unauthorized: Invalid MLA Key")
	}
	if validate.Blank(in.Email, in.FullName, in.Password, in.ConfirmPassword, in.Phone, in.Gender, in.Address) {
		return nil, apperror.BadRequest("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperror.BadRequest("Passwords do not match")
	}
	if err := checkProfileFields(in); err != nil {
		return nil, err
	}

	user := newUser(in, models.RoleMLA)
	user.Constituency = strings.TrimSpace(in.Constituency)
	for _, t := range in.Tehsils {
		if t = strings.TrimSpace(t); t != "" {
			user.Tehsils = append(user.Tehsils, t)
		}
	}
	if err := s.create(ctx, user, in.Password, "Email already registered"); err != nil {
		return nil, err
	}
	return s.issue(user, config.MlaSignupTokenTTL)
}

func checkProfileFields(in SignupInput) error {
	if len(in.Password) < config.MinPasswordLength {
		return apperror.BadRequest("Password must be at least 6 characters long.")
	}
	if !validate.PhoneNumber(strings.TrimSpace(in.Phone)) {
		return apperror.BadRequest("Please enter a valid 10-digit phone number.")
	}
	if !validate.OneOf(in.Gender, models.Genders) {
		return apperror.BadRequest("Gender must be one of Male, Female or Other.")
	}
	return nil
}

func newUser(in SignupInput, role models.Role) *models.User {
	return &models.User{
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      models.Phone{CountryCode: config.DefaultPhoneCountryCode, Number: strings.TrimSpace(in.Phone)},
		Gender:     in.Gender,
		District:   strings.TrimSpace(in.District),
		Address:    strings.TrimSpace(in.Address),
		JobProfile: strings.TrimSpace(in.JobProfile),
		Role:       role,
	}
}

func (s *Service) create(ctx context.Context, user *models.User, password, duplicateMsg string) error {
	if _, err := s.store.GetUserByEmail(ctx, user.Email); err == nil {
		return apperror.Conflict(duplicateMsg)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return apperror.Internal(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperror.Internal(err)
	}
	user.PasswordHash = hash

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperror.Conflict("An account with this email or phone number already exists.")
		}
		return apperror.Internal(err)
	}
	s.log.Info("account created", zap.String("user", user.ID), zap.String("role", string(user.Role)))
	return nil
}

func (s *Service) issue(user *models.User, ttl time.Duration) (*Session, error) {
	token, err := auth.MakeToken(user.ID, user.Role, s.jwtSecret, ttl)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &Session{Token: token, User: user}, nil
}

// Login authenticates a citizen and sends a new-login alert.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if validate.Blank(email, password) {
		return nil, apperror.BadRequest("Please enter all entries")
	}
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	data := map[string]any{"Name": user.FullName}
	s.notifier.Email(user.Email, s.msgs.Render("en", "login_alert.subject", data), s.msgs.Render("en", "login_alert.email", data))
	s.notifier.SMS(user.Phone.String(), s.msgs.Render("en", "login_alert.sms", data))

	return s.issue(user, config.LoginTokenTTL)
}

// LoginMLA authenticates an MLA. Citizens get a distinct 401.
func (s *Service) LoginMLA(ctx context.Context, email, password string) (*Session, error) {
	if validate.Blank(email, password) {
		return nil, apperror.BadRequest("Please enter all entries")
	}
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !user.IsMLA()) {
		return nil, apperror.Unauthorized("Invalid credentials or not an MLA")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	return s.issue(user, config.LoginTokenTTL)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.Unauthorized("Unauthorized - No Token Provided")
	}
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, apperror.Unauthorized("Unauthorized - Invalid Token")
	}
	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// ChangePassword replaces the password of a signed-in user.
func (s *Service) ChangePassword(ctx context.Context, user *models.User, current, next, confirm string) error {
	if validate.Blank(current, next, confirm) {
		return apperror.BadRequest("All password fields are required.")
	}
	if next != confirm {
		return apperror.BadRequest("New password and confirm password do not match.")
	}
	if len(next) < config.MinPasswordLength {
		return apperror.BadRequest("Password must be at least 6 characters long.")
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperror.Unauthorized("Incorrect current password")
	}
	return s.setPassword(ctx, user.ID, next)
}

func (s *Service) setPassword(ctx context.Context, userID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// ForgotPassword issues a one-time reset code by email and SMS.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if validate.Blank(email) {
		return apperror.BadRequest("Please provide an email address.")
	}
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound("This email is not registered with us.")
	}
	if err != nil {
		return apperror.Internal(err)
	}

	otp, err := auth.GenerateOTP(config.ResetOTPDigits)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.store.SaveResetOTP(ctx, user.ID, auth.HashOTP(otp), config.ResetOTPTTL); err != nil {
		return apperror.Internal(err)
	}

	data := map[string]any{"OTP": otp, "Minutes": int(config.ResetOTPTTL / time.Minute)}
	s.notifier.Email(user.Email, s.msgs.Render("en", "reset_otp.subject", data), s.msgs.Render("en", "reset_otp.email", data))
	s.notifier.SMS(user.Phone.String(), s.msgs.Render("en", "reset_otp.sms", data))
	return nil
}

type ResetInput struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetPassword checks the code issued by ForgotPassword and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, in ResetInput) error {
	if validate.Blank(in.Email, in.OTP, in.Password, in.ConfirmPassword) {
		return apperror.BadRequest("Please provide email, OTP, and new password.")
	}
	if in.Password != in.ConfirmPassword {
		return apperror.BadRequest("Passwords do not match.")
	}
	if len(in.Password) < config.MinPasswordLength {
		return apperror.BadRequest("Password must be at least 6 characters long.")
	}

	invalid := apperror.BadRequest("OTP is invalid or has expired.")
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, storage.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return apperror.Internal(err)
	}

	stored, err := s.store.GetResetOTP(ctx, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return apperror.Internal(err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(auth.HashOTP(strings.TrimSpace(in.OTP)))) != 1 {
		s.recordOTPFailure(ctx, user.ID)
		return invalid
	}

	if err := s.setPassword(ctx, user.ID, in.Password); err != nil {
		return err
	}
	if err := s.store.DeleteResetOTP(ctx, user.ID); err != nil {
		s.log.Warn("failed to clear reset otp", zap.String("user", user.ID), zap.Error(err))
	}

	data := map[string]any{"Name": user.FullName}
	s.notifier.Email(user.Email, s.msgs.Render("en", "reset_done.subject", data), s.msgs.Render("en", "reset_done.email", data))
	s.notifier.SMS(user.Phone.String(), s.msgs.Render("en", "reset_done.sms", data))
	return nil
}

// recordOTPFailure burns the reset code once MaxOTPAttempts wrong guesses are in.
func (s *Service) recordOTPFailure(ctx context.Context, userID string) {
	n, err := s.store.RecordOTPFailure(ctx, userID, config.ResetOTPTTL)
	if err != nil {
		s.log.Warn("failed to count otp attempt", zap.String("user", userID), zap.Error(err))
		return
	}
	if n < config.MaxOTPAttempts {
		return
	}
	if err := s.store.DeleteResetOTP(ctx, userID); err != nil {
		s.log.Warn("failed to clear reset otp", zap.String("user", userID), zap.Error(err))
		return
	}
	s.log.Info("reset otp revoked after repeated failures", zap.String("user", userID))
}

func (s *Service) Profile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("User not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// ListMLAs is the public MLA directory.
func (s *Service) ListMLAs(ctx context.Context) ([]models.MLAListing, error) {
	mlas, err := s.store.ListMLAs(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]models.MLAListing, 0, len(mlas))
	for i := range mlas {
		out = append(out, mlas[i].Listing())
	}
	return out, nil
}
