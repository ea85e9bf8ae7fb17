package auth

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/wintercraft/storefront/internal/models"
)

// memAccounts is an in-memory AccountStore with the same contract as the
// Mongo implementation, including the unique-email behavior.
type memAccounts struct {
	mu      sync.Mutex
	byEmail map[string]*models.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]*models.Account{}}
}

func (s *memAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	sanitized := acct.Sanitized()
	return &sanitized, nil
}

func (s *memAccounts) FindByEmailWithSecrets(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *acct
	return &copied, nil
}

func (s *memAccounts) Create(_ context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[acct.Email]; ok {
		return ErrAccountExists
	}
	acct.ID = primitive.NewObjectID()
	copied := *acct
	s.byEmail[acct.Email] = &copied
	return nil
}

func (s *memAccounts) SetResetOTP(_ context.Context, id primitive.ObjectID, otpHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.byEmail {
		if acct.ID == id {
			acct.ResetOTPHash = otpHash
			expiry := expiresAt
			acct.ResetOTPExpiresAt = &expiry
			return nil
		}
	}
	return ErrAccountNotFound
}

func (s *memAccounts) CompletePasswordReset(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.byEmail {
		if acct.ID == id {
			acct.PasswordHash = passwordHash
			acct.ResetOTPHash = ""
			acct.ResetOTPExpiresAt = nil
			return nil
		}
	}
	return ErrAccountNotFound
}

// captureNotifier records the last message instead of sending mail.
type captureNotifier struct {
	to   string
	body string
}

func (n *captureNotifier) Send(_ context.Context, to, _, body string) error {
	n.to = to
	n.body = body
	return nil
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func (n *captureNotifier) lastOTP() string {
	return otpPattern.FindString(n.body)
}

func newTestService(t *testing.T) (*Service, *memAccounts, *captureNotifier) {
	t.Helper()
	hasher, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := NewTokenManager(TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
	require.NoError(t, err)

	accounts := newMemAccounts()
	notifier := &captureNotifier{}
	svc := NewService(accounts, hasher, tokens, notifier, ServiceConfig{})
	return svc, accounts, notifier
}

func TestSignUpThenSignIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	acct, err := svc.SignUp(ctx, SignUpInput{
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, acct.Role)
	require.Empty(t, acct.PasswordHash)

	signedIn, token, err := svc.SignIn(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, acct.ID, signedIn.ID)
	require.Empty(t, signedIn.PasswordHash)

	accountID, role, err := svc.tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, acct.ID.Hex(), accountID)
	require.Equal(t, models.RoleUser, role)
}

func TestSignUpNormalizesEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "  A@X.Com ", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
}

func TestSignUpPasswordMismatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestSignUpInvalidRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "root",
	})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "different", ConfirmPassword: "different"})
	require.ErrorIs(t, err, ErrAccountExists)
}

func TestSignInGenericFailure(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	// Wrong password and unknown email must be indistinguishable.
	_, _, wrongPass := svc.SignIn(ctx, "a@x.com", "wrong")
	_, _, unknown := svc.SignIn(ctx, "nobody@x.com", "secret1")
	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	require.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestForgotPasswordUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestOTPRoundTrip(t *testing.T) {
	svc, accounts, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	require.Equal(t, "a@x.com", notifier.to)

	otp := notifier.lastOTP()
	require.Len(t, otp, 6)

	stored := accounts.byEmail["a@x.com"]
	require.NotEmpty(t, stored.ResetOTPHash)
	require.NotNil(t, stored.ResetOTPExpiresAt)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.ResetOTPExpiresAt, 5*time.Second)

	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", otp, "secret2", "secret2"))

	// OTP fields cleared atomically with the password swap.
	require.Empty(t, stored.ResetOTPHash)
	require.Nil(t, stored.ResetOTPExpiresAt)

	_, _, err = svc.SignIn(ctx, "a@x.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, "a@x.com", "secret2")
	require.NoError(t, err)
}

func TestOTPCannotBeReused(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	otp := notifier.lastOTP()
	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", otp, "secret2", "secret2"))

	err = svc.ResetPassword(ctx, "a@x.com", otp, "secret3", "secret3")
	require.ErrorIs(t, err, ErrOTPInvalid)
}

func TestOTPWrongCode(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	wrong := "000000"
	if notifier.lastOTP() == wrong {
		wrong = "000001"
	}
	err = svc.ResetPassword(ctx, "a@x.com", wrong, "secret2", "secret2")
	require.ErrorIs(t, err, ErrOTPInvalid)
}

func TestOTPExpired(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	otp := notifier.lastOTP()

	// Jump past the TTL; the stored hash still matches, expiry alone
	// must reject it.
	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	err = svc.ResetPassword(ctx, "a@x.com", otp, "secret2", "secret2")
	require.ErrorIs(t, err, ErrOTPInvalid)
}

func TestReissueInvalidatesPriorOTP(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	first := notifier.lastOTP()
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	second := notifier.lastOTP()

	if first == second {
		t.Skip("random collision between consecutive codes")
	}

	err = svc.ResetPassword(ctx, "a@x.com", first, "secret2", "secret2")
	require.ErrorIs(t, err, ErrOTPInvalid)
	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", second, "secret2", "secret2"))
}

func TestResetPasswordMismatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), "a@x.com", "123456", "secret2", "secret3")
	require.ErrorIs(t, err, ErrPasswordMismatch)
}
