package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pratty2304/MedConnect/internal/config"
	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/repositories"
	"github.com/pratty2304/MedConnect/internal/security"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountLocked          = errors.New("account is locked due to too many failed login attempts")
	ErrInvalidRole            = errors.New("role must be doctor or patient")
	ErrTOTPNotEnabled         = errors.New("totp not enabled")
	ErrInvalidTOTPCode        = errors.New("invalid totp code")
	ErrTOTPSecretNotCreated   = errors.New("totp secret not created")
	ErrLoginSessionExpired    = errors.New("login session expired")
)

// AuthService owns registration, the login state machine (lockout check,
// credential verification, optional TOTP step) and token issuance.
type AuthService struct {
	userRepo         repositories.UserRepository
	loginSessionRepo repositories.LoginSessionRepository
	policy           security.PasswordPolicy
	tracker          *security.LoginAttemptTracker
	tokens           *security.TokenIssuer
	cfg              *config.Config
	log              *zap.Logger
	loginSessionTTL  time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	loginSessionRepo repositories.LoginSessionRepository,
	policy security.PasswordPolicy,
	tracker *security.LoginAttemptTracker,
	tokens *security.TokenIssuer,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		loginSessionRepo: loginSessionRepo,
		policy:           policy,
		tracker:          tracker,
		tokens:           tokens,
		cfg:              cfg,
		log:              log,
		loginSessionTTL:  5 * time.Minute,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     models.UserRole
}

// LoginResult carries either a minted token pair or, for users with
// TOTP enabled, the login-session challenge for the second step.
type LoginResult struct {
	User           *models.User
	AccessToken    string
	RefreshToken   string
	TOTPRequired   bool
	LoginSessionID uuid.UUID
}

type TOTPSetup struct {
	Secret string
	URL    string
}

func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	if err := s.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// Login runs the password step. The lockout check happens before any
// bcrypt work, and the tracker is only updated with real verification
// outcomes.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if s.tracker.IsLockedOut(user.ID) {
		s.log.Warn("login rejected, account locked", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.tracker.RecordAttempt(user.ID, false)
		s.log.Info("failed login attempt",
			zap.String("user_id", user.ID.String()),
			zap.Int("failed_attempts", s.tracker.FailedAttempts(user.ID)),
		)
		return nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled != nil && *user.TOTPEnabled {
		// Password verified but login incomplete; the counter is
		// cleared only after the TOTP step succeeds.
		session, err := s.loginSessionRepo.Create(user.ID, s.loginSessionTTL)
		if err != nil {
			return nil, err
		}
		return &LoginResult{
			User:           user,
			TOTPRequired:   true,
			LoginSessionID: session.ID,
		}, nil
	}

	s.tracker.RecordAttempt(user.ID, true)
	return s.issueTokens(user)
}

// LoginTOTP completes a login challenge created by the password step.
// Failed codes count toward the same lockout window as failed passwords.
func (s *AuthService) LoginTOTP(sessionID uuid.UUID, code string) (*LoginResult, error) {
	now := time.Now().UTC()
	session, err := s.loginSessionRepo.GetActiveByID(sessionID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginSessionExpired
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if s.tracker.IsLockedOut(user.ID) {
		return nil, ErrAccountLocked
	}

	if user.TOTPEnabled == nil || !*user.TOTPEnabled {
		return nil, ErrTOTPNotEnabled
	}
	if user.TOTPSecret == nil {
		return nil, ErrTOTPSecretNotCreated
	}

	if !s.validateTOTP(*user.TOTPSecret, code) {
		_ = s.loginSessionRepo.IncrementFailedAttempts(session.ID)
		s.tracker.RecordAttempt(user.ID, false)
		return nil, ErrInvalidTOTPCode
	}

	if err := s.loginSessionRepo.MarkConsumed(session.ID, now); err != nil {
		return nil, err
	}

	s.tracker.RecordAttempt(user.ID, true)
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new access token. It
// never mints a new refresh token; that requires re-authentication.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.DecodeRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", security.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	// Role is read back from the store so a stale claim never outlives
	// the record.
	return s.tokens.IssueAccess(user.ID, user.Role)
}

func (s *AuthService) ChangePassword(userID uuid.UUID, oldPassword, totpCode, newPassword string) error {
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	totpEnabled := user.TOTPEnabled != nil && *user.TOTPEnabled

	if totpEnabled && totpCode != "" {
		if user.TOTPSecret == nil {
			return ErrTOTPSecretNotCreated
		}
		if !s.validateTOTP(*user.TOTPSecret, totpCode) {
			return ErrInvalidTOTPCode
		}
	} else {
		if oldPassword == "" {
			return fmt.Errorf("old password is required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.userRepo.Update(user)
}

func (s *AuthService) SetupTOTP(userID uuid.UUID) (*TOTPSetup, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.TOTP.Issuer,
		AccountName: user.Email,
		Period:      s.cfg.TOTP.Period,
		Digits:      totpDigits(s.cfg.TOTP.Digits),
	})
	if err != nil {
		return nil, err
	}

	secret := key.Secret()
	user.TOTPSecret = &secret
	enabled := false
	user.TOTPEnabled = &enabled

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return &TOTPSetup{
		Secret: secret,
		URL:    key.URL(),
	}, nil
}

func (s *AuthService) VerifyTOTP(userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	if user.TOTPSecret == nil {
		return ErrTOTPSecretNotCreated
	}

	if !s.validateTOTP(*user.TOTPSecret, code) {
		return ErrInvalidTOTPCode
	}

	enabled := true
	user.TOTPEnabled = &enabled
	return s.userRepo.Update(user)
}

func (s *AuthService) DisableTOTP(userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	if user.TOTPEnabled == nil || !*user.TOTPEnabled {
		return ErrTOTPNotEnabled
	}
	if user.TOTPSecret == nil {
		return ErrTOTPSecretNotCreated
	}

	if !s.validateTOTP(*user.TOTPSecret, code) {
		return ErrInvalidTOTPCode
	}

	enabled := false
	user.TOTPEnabled = &enabled
	return s.userRepo.Update(user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *AuthService) issueTokens(user *models.User) (*LoginResult, error) {
	access, refresh, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *AuthService) validateTOTP(secret, code string) bool {
	valid, err := totp.ValidateCustom(
		code,
		secret,
		time.Now(),
		totp.ValidateOpts{
			Period:    s.cfg.TOTP.Period,
			Skew:      1,
			Digits:    totpDigits(s.cfg.TOTP.Digits),
			Algorithm: otp.AlgorithmSHA1,
		},
	)
	if err != nil {
		return false
	}
	return valid
}

func totpDigits(d uint) otp.Digits {
	switch d {
	case 8:
		return otp.DigitsEight
	default:
		return otp.DigitsSix
	}
}
