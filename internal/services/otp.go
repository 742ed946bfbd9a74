package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
	"github.com/lalushbella/p2prental-backend/internal/utils"
)

const (
	// OTPExpiry is how long an issued code stays valid.
	OTPExpiry = 10 * time.Minute

	// MaxVerificationAttempts is the attempt cap per session. The
	// counter is reset on resend.
	MaxVerificationAttempts = 3
)

// RegistrationDetails carries the caller-supplied profile fields used
// when a register session completes.
type RegistrationDetails struct {
	Name      string           `json:"name"`
	Addresses []models.Address `json:"addresses"`
}

// OTPService drives the OTP session state machine: issue, verify,
// expire, rate-limit and resend.
type OTPService struct {
	store    storage.Store
	notifier *Notifier
	now      func() time.Time

	// Verify serializes per session so concurrent attempts cannot race
	// past the attempt cap.
	sessionMu sync.Map
}

// NewOTPService creates a new OTP service.
func NewOTPService(store storage.Store, notifier *Notifier) *OTPService {
	return &OTPService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *OTPService) lockSession(sessionID string) func() {
	v, _ := s.sessionMu.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// IssueLogin creates a login OTP session for an existing user. Returns
// ErrUserNotFound when no user owns the mobile number, signaling that
// the caller should register instead.
func (s *OTPService) IssueLogin(mobile string) (*models.OTPSession, models.DeliveryReceipt, error) {
	user, err := s.store.GetUserByMobile(mobile)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.DeliveryReceipt{}, ErrUserNotFound
		}
		return nil, models.DeliveryReceipt{}, err
	}

	return s.issue(mobile, user.Email, models.OTPActionLogin)
}

// IssueRegister creates a register OTP session for a new mobile/email
// pair. Both must be unclaimed.
func (s *OTPService) IssueRegister(mobile, email string) (*models.OTPSession, models.DeliveryReceipt, error) {
	if _, err := s.store.GetUserByMobile(mobile); err == nil {
		return nil, models.DeliveryReceipt{}, ErrDuplicateMobile
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, models.DeliveryReceipt{}, err
	}

	if _, err := s.store.GetUserByEmail(email); err == nil {
		return nil, models.DeliveryReceipt{}, ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, models.DeliveryReceipt{}, err
	}

	return s.issue(mobile, email, models.OTPActionRegister)
}

func (s *OTPService) issue(mobile, email string, action models.OTPAction) (*models.OTPSession, models.DeliveryReceipt, error) {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, models.DeliveryReceipt{}, fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.now()
	session := &models.OTPSession{
		SessionID:    utils.NewSessionToken(),
		MobileNumber: mobile,
		Email:        email,
		OTPCode:      code,
		CreatedAt:    now,
		ExpiresAt:    now.Add(OTPExpiry),
		ActionType:   action,
	}

	if _, err := s.store.CreateOTPSession(session); err != nil {
		return nil, models.DeliveryReceipt{}, err
	}

	receipt := s.notifier.Dispatch(session)
	return session, receipt, nil
}

// Verify checks the submitted code against the session identified by
// sessionID. The attempt counter is incremented and persisted before
// the code comparison, even on the rate-limit and mismatch failure
// paths. On success for a register session, the user record is created
// from the session's mobile/email plus the supplied details.
func (s *OTPService) Verify(sessionID, code string, kind models.OTPAction, details *RegistrationDetails) (*models.User, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.store.GetOTPSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if s.now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	if session.ActionType != kind {
		return nil, ErrWrongSessionKind
	}
	if session.Verified {
		return nil, ErrAlreadyVerified
	}

	session.VerificationAttempts++

	if session.VerificationAttempts > MaxVerificationAttempts {
		if err := s.store.UpdateOTPSession(session); err != nil {
			return nil, err
		}
		return nil, ErrTooManyAttempts
	}

	if session.OTPCode != code {
		if err := s.store.UpdateOTPSession(session); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCode
	}

	// Resolve or create the user before marking the session verified, so
	// a conflict here leaves the session usable for another attempt.
	var user *models.User
	if kind == models.OTPActionRegister {
		user, err = s.createUser(session, details)
	} else {
		user, err = s.store.GetUserByMobile(session.MobileNumber)
		if err != nil && errors.Is(err, storage.ErrNotFound) {
			err = ErrUserNotFound
		}
	}
	if err != nil {
		if uerr := s.store.UpdateOTPSession(session); uerr != nil {
			return nil, uerr
		}
		return nil, err
	}

	session.Verified = true
	if err := s.store.UpdateOTPSession(session); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *OTPService) createUser(session *models.OTPSession, details *RegistrationDetails) (*models.User, error) {
	user := &models.User{
		MobileNumber: session.MobileNumber,
		Email:        session.Email,
		KYCStatus:    false,
	}
	if details != nil {
		user.Name = details.Name
		user.Addresses = details.Addresses
	}

	created, err := s.store.CreateUser(user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicateMobile
		}
		return nil, err
	}
	return created, nil
}

// Resend replaces the session's code, resets its expiry and attempt
// counter, and redispatches over both channels.
func (s *OTPService) Resend(sessionID string) (*models.OTPSession, models.DeliveryReceipt, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.store.GetOTPSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.DeliveryReceipt{}, ErrSessionNotFound
		}
		return nil, models.DeliveryReceipt{}, err
	}

	if session.Verified {
		return nil, models.DeliveryReceipt{}, ErrAlreadyVerified
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return nil, models.DeliveryReceipt{}, fmt.Errorf("failed to generate OTP: %w", err)
	}

	session.OTPCode = code
	session.ExpiresAt = s.now().Add(OTPExpiry)
	session.VerificationAttempts = 0

	if err := s.store.UpdateOTPSession(session); err != nil {
		return nil, models.DeliveryReceipt{}, err
	}

	receipt := s.notifier.Dispatch(session)
	return session, receipt, nil
}
