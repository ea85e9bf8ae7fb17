package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wintercraft/storefront/internal/models"
)

// AccountStore is the persistence contract the service needs. The Mongo
// implementation lives in internal/store; tests use an in-memory fake.
type AccountStore interface {
	// FindByEmail returns the account without its secret fields.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByEmailWithSecrets explicitly requests the password hash and
	// reset-OTP fields, which default projections exclude.
	FindByEmailWithSecrets(ctx context.Context, email string) (*models.Account, error)
	// Create inserts the account, mapping a unique-index violation on
	// email to ErrAccountExists.
	Create(ctx context.Context, acct *models.Account) error
	// SetResetOTP overwrites the reset-OTP pair on the account. A prior
	// pending OTP is implicitly invalidated.
	SetResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expiresAt time.Time) error
	// CompletePasswordReset atomically sets the new password hash and
	// clears both reset-OTP fields.
	CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// Notifier delivers the plaintext OTP to the account's email. The plaintext
// exists only in memory and in the outbound message.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ServiceConfig carries the OTP knobs; zero values fall back to the
// defaults above.
type ServiceConfig struct {
	OTPDigits int
	OTPTTL    time.Duration
}

// Service orchestrates sign-up, sign-in, and the OTP reset flow.
type Service struct {
	accounts  AccountStore
	hasher    *Hasher
	tokens    *TokenManager
	notifier  Notifier
	otpDigits int
	otpTTL    time.Duration
	now       func() time.Time
}

// NewService wires the collaborators together.
func NewService(accounts AccountStore, hasher *Hasher, tokens *TokenManager, notifier Notifier, cfg ServiceConfig) *Service {
	if cfg.OTPDigits == 0 {
		cfg.OTPDigits = DefaultOTPDigits
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = DefaultOTPTTL
	}
	return &Service{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  notifier,
		otpDigits: cfg.OTPDigits,
		otpTTL:    cfg.OTPTTL,
		now:       time.Now,
	}
}

// SignUpInput is the validated sign-up request. Presence and email syntax
// are checked at the binding layer; the service enforces the rest.
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
}

// SignUp creates an account with a freshly hashed password. Role defaults
// to "user". Duplicate emails surface as ErrAccountExists.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.Account, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	role := in.Role
	if role == "" {
		role = models.DefaultRole
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	acct := &models.Account{
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}

	sanitized := acct.Sanitized()
	return &sanitized, nil
}

// SignIn verifies the credentials and issues a bearer token. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Account, string, error) {
	acct, err := s.accounts.FindByEmailWithSecrets(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("find account: %w", err)
	}
	if !s.hasher.Verify(password, acct.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(acct.ID.Hex(), acct.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	sanitized := acct.Sanitized()
	return &sanitized, token, nil
}

// ForgotPassword generates an OTP, persists its hash with a fresh expiry,
// and mails the plaintext. If the mail fails after the store write, the
// caller sees a failure; a retry overwrites the pending OTP.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	acct, err := s.accounts.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	otp, err := GenerateOTP(s.otpDigits)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	otpHash, err := s.hasher.Hash(otp)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	expiresAt := s.now().Add(s.otpTTL)
	if err := s.accounts.SetResetOTP(ctx, acct.ID, otpHash, expiresAt); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is: %s\nIt expires in %d minutes.", otp, int(s.otpTTL.Minutes()))
	if err := s.notifier.Send(ctx, acct.Email, "Password reset code", body); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// ResetPassword redeems a pending OTP. The expiry and hash are checked
// against the record read within this request, and on success the password
// swap and OTP clearing happen in one store update.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	acct, err := s.accounts.FindByEmailWithSecrets(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return ErrOTPInvalid
	}
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if !acct.HasActiveResetOTP(s.now()) {
		return ErrOTPInvalid
	}
	if !s.hasher.Verify(otp, acct.ResetOTPHash) {
		return ErrOTPInvalid
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.CompletePasswordReset(ctx, acct.ID, hash); err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	return nil
}

// NormalizeEmail lowercases and trims an address so the unique index works
// case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
