package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a failed
	// password check. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountExists maps the unique-email index violation on sign-up.
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is the store's no-document sentinel. It reaches
	// clients only through forgot-password, which reveals non-existence;
	// the original behavior is preserved deliberately. Sign-in and
	// reset-password fold it into their generic errors.
	ErrAccountNotFound = errors.New("account not found")

	// ErrPasswordMismatch is returned when password and confirmPassword
	// differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidRole is returned for a role outside the accepted enum.
	ErrInvalidRole = errors.New("invalid account role")

	// ErrTokenInvalid covers malformed, tampered, and expired tokens
	// alike. Verify never reports which one it was.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrOTPInvalid covers an absent, expired, or mismatched reset OTP
	// alike.
	ErrOTPInvalid = errors.New("invalid or expired otp")
)
