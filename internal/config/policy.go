package config

import "time"

const (
	// Tokens
	LoginTokenTTL     = 24 * time.Hour
	MlaSignupTokenTTL = 7 * 24 * time.Hour
	AuthCookieName    = "token"

	// Password reset
	ResetOTPTTL       = 10 * time.Minute
	ResetOTPDigits    = 6
	MaxOTPAttempts    = 5
	MinPasswordLength = 6

	// Uploads
	MediaFormField    = "media"
	MaxMediaFiles     = 5
	MaxMediaFileBytes = 25 << 20

	// Dashboard
	RecentPerKind       = 3
	RecentActivityLimit = 5

	// Notifications
	NotifyTimeout           = 15 * time.Second
	DefaultPhoneCountryCode = "+91"
	SenderDisplayName       = "MLA Connect"
)
