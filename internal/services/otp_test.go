package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

type stubEmailSender struct {
	calls int
	fail  bool
}

func (s *stubEmailSender) SendOTPEmail(to, code string, action models.OTPAction) error {
	s.calls++
	if s.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

type stubSMSSender struct {
	calls int
	fail  bool
}

func (s *stubSMSSender) SendOTPSMS(mobile, code string, action models.OTPAction) error {
	s.calls++
	if s.fail {
		return errors.New("sms gateway unavailable")
	}
	return nil
}

func newTestOTPService(t *testing.T) (*OTPService, *storage.MemoryStore, *stubEmailSender, *stubSMSSender) {
	t.Helper()
	store := storage.NewMemoryStore()
	email := &stubEmailSender{}
	sms := &stubSMSSender{}
	svc := NewOTPService(store, NewNotifier(email, sms))
	return svc, store, email, sms
}

func seedUser(t *testing.T, store *storage.MemoryStore, mobile, email string) *models.User {
	t.Helper()
	user, err := store.CreateUser(&models.User{
		MobileNumber: mobile,
		Email:        email,
		Name:         "Asha",
	})
	require.NoError(t, err)
	return user
}

func TestIssueLoginUnknownMobile(t *testing.T) {
	svc, _, _, _ := newTestOTPService(t)

	_, _, err := svc.IssueLogin("+919900112233")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIssueLoginGeneratesCodeAndExpiry(t *testing.T) {
	svc, store, email, sms := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	issuedAt := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	session, receipt, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), stored.OTPCode)
	assert.Equal(t, issuedAt.Add(10*time.Minute), stored.ExpiresAt)
	assert.Equal(t, models.OTPActionLogin, stored.ActionType)
	assert.Equal(t, "asha@example.com", stored.Email)
	assert.True(t, receipt.Email)
	assert.True(t, receipt.SMS)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1, sms.calls)
}

func TestIssueReportsChannelFailureWithoutAborting(t *testing.T) {
	svc, store, email, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")
	email.fail = true

	session, receipt, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.False(t, receipt.Email)
	assert.True(t, receipt.SMS)
}

func TestIssueRegisterRejectsDuplicates(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	_, _, err := svc.IssueRegister("+919900112233", "new@example.com")
	assert.ErrorIs(t, err, ErrDuplicateMobile)

	_, _, err = svc.IssueRegister("+918800112233", "asha@example.com")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestVerifyLoginSucceedsExactlyOnce(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seeded := seedUser(t, store, "+919900112233", "asha@example.com")

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	user, err := svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionLogin, nil)
	require.NoError(t, err)
	assert.Equal(t, seeded.CustomerID, user.CustomerID)

	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionLogin, nil)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestOTPService(t)

	_, err := svc.Verify("no-such-session", "123456", models.OTPActionLogin, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestVerifyExpiredSession(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	issuedAt := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(11 * time.Minute) }
	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionLogin, nil)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestVerifyWrongSessionKind(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionRegister, nil)
	assert.ErrorIs(t, err, ErrWrongSessionKind)
}

func TestVerifyLocksAfterThreeAttempts(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	wrong := "000000"
	if stored.OTPCode == wrong {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		_, err = svc.Verify(session.SessionID, wrong, models.OTPActionLogin, nil)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}

	// The 4th attempt is locked out even with the correct code.
	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionLogin, nil)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// The counter mutation is persisted on the lockout path too.
	after, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 4, after.VerificationAttempts)
	assert.False(t, after.Verified)
}

func TestVerifyMismatchPersistsCounter(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	wrong := "000000"
	if stored.OTPCode == wrong {
		wrong = "000001"
	}

	_, err = svc.Verify(session.SessionID, wrong, models.OTPActionLogin, nil)
	assert.ErrorIs(t, err, ErrInvalidCode)

	after, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.VerificationAttempts)

	// The correct code still works within the cap, and the counter
	// increments on the successful attempt as well.
	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionLogin, nil)
	require.NoError(t, err)

	after, err = store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.VerificationAttempts)
	assert.True(t, after.Verified)
}

func TestVerifyRegisterCreatesUser(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)

	session, _, err := svc.IssueRegister("+917700112233", "ravi@example.com")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	details := &RegistrationDetails{
		Name: "Ravi",
		Addresses: []models.Address{
			{Label: "home", Line1: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
		},
	}
	user, err := svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionRegister, details)
	require.NoError(t, err)

	assert.Equal(t, "+917700112233", user.MobileNumber)
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.Equal(t, "Ravi", user.Name)
	assert.False(t, user.KYCStatus)
	require.Len(t, user.Addresses, 1)
	assert.Equal(t, "560001", user.Addresses[0].Pincode)

	// The user is persisted and findable by mobile.
	found, err := store.GetUserByMobile("+917700112233")
	require.NoError(t, err)
	assert.Equal(t, user.CustomerID, found.CustomerID)
}

func TestVerifyRegisterConflictLeavesSessionUnverified(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)

	session, _, err := svc.IssueRegister("+917700112233", "ravi@example.com")
	require.NoError(t, err)

	// The mobile number gets claimed between issue and verify.
	seedUser(t, store, "+917700112233", "other@example.com")

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionRegister, &RegistrationDetails{Name: "Ravi"})
	assert.ErrorIs(t, err, ErrDuplicateMobile)

	// The attempt counted, but the session is not burned: it stays
	// unverified and can still be resent.
	after, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	assert.False(t, after.Verified)
	assert.Equal(t, 1, after.VerificationAttempts)

	_, _, err = svc.Resend(session.SessionID)
	assert.NoError(t, err)
}

func TestResendResetsCounterAndExtendsExpiry(t *testing.T) {
	svc, store, email, sms := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	issuedAt := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	// Burn an attempt so the reset is observable.
	_, err = svc.Verify(session.SessionID, "999999", models.OTPActionLogin, nil)
	if err != nil && !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("unexpected verify error: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(5 * time.Minute) }
	_, receipt, err := svc.Resend(session.SessionID)
	require.NoError(t, err)
	assert.True(t, receipt.Email)
	assert.True(t, receipt.SMS)
	assert.Equal(t, 2, email.calls)
	assert.Equal(t, 2, sms.calls)

	after, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.VerificationAttempts)
	assert.Equal(t, issuedAt.Add(5*time.Minute).Add(10*time.Minute), after.ExpiresAt)
	assert.True(t, after.ExpiresAt.After(issuedAt.Add(10*time.Minute)))
}

func TestResendRejectsVerifiedSession(t *testing.T) {
	svc, store, _, _ := newTestOTPService(t)
	seedUser(t, store, "+919900112233", "asha@example.com")

	session, _, err := svc.IssueLogin("+919900112233")
	require.NoError(t, err)

	stored, err := store.GetOTPSession(session.SessionID)
	require.NoError(t, err)

	_, err = svc.Verify(session.SessionID, stored.OTPCode, models.OTPActionLogin, nil)
	require.NoError(t, err)

	_, _, err = svc.Resend(session.SessionID)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendUnknownSession(t *testing.T) {
	svc, _, _, _ := newTestOTPService(t)

	_, _, err := svc.Resend("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
