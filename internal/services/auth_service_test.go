package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratty2304/MedConnect/internal/config"
	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/security"
	"github.com/pratty2304/MedConnect/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		TOTP: config.TOTPConfig{
			Issuer: "MedConnect",
			Period: 30,
			Digits: 6,
		},
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}

func newAuthService(userRepo *mockUserRepo) (*services.AuthService, *security.LoginAttemptTracker, *security.TokenIssuer) {
	tracker := security.NewLoginAttemptTracker(5, 15*time.Minute)
	tokens := security.NewTokenIssuer("test-secret", time.Hour, 30*24*time.Hour)
	svc := services.NewAuthService(
		userRepo,
		newMockLoginSessionRepo(),
		security.DefaultPasswordPolicy(),
		tracker,
		tokens,
		testConfig(),
		zap.NewNop(),
	)
	return svc, tracker, tokens
}

func TestRegister(t *testing.T) {
	var created *models.User
	userRepo := &mockUserRepo{
		existsByEmailFunc: func(email string) (bool, error) { return false, nil },
		createFunc: func(user *models.User) error {
			user.ID = uuid.New()
			created = user
			return nil
		},
	}
	svc, _, _ := newAuthService(userRepo)

	user, err := svc.Register(services.RegisterInput{
		Email:    "dr.adams@clinic.example",
		Password: "Str0ng!pass",
		Name:     "Dr. Adams",
		Role:     models.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created == nil {
		t.Fatal("user was not persisted")
	}
	if user.PasswordHash == "Str0ng!pass" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Str0ng!pass")); err != nil {
		t.Errorf("stored hash does not verify the original password: %v", err)
	}
	if user.Role != models.RoleDoctor {
		t.Errorf("role = %q, want %q", user.Role, models.RoleDoctor)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	userRepo := &mockUserRepo{
		existsByEmailFunc: func(email string) (bool, error) {
			t.Fatal("repository consulted before the password was validated")
			return false, nil
		},
	}
	svc, _, _ := newAuthService(userRepo)

	_, err := svc.Register(services.RegisterInput{
		Email:    "weak@clinic.example",
		Password: "short",
		Name:     "Weak",
		Role:     models.RolePatient,
	})

	var policyErr *security.PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("err = %v, want *security.PasswordPolicyError", err)
	}
	if policyErr.Message != "Password must be at least 8 characters long" {
		t.Errorf("unexpected message: %q", policyErr.Message)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		existsByEmailFunc: func(email string) (bool, error) { return true, nil },
	}
	svc, _, _ := newAuthService(userRepo)

	_, err := svc.Register(services.RegisterInput{
		Email:    "taken@clinic.example",
		Password: "Str0ng!pass",
		Name:     "Dup",
		Role:     models.RolePatient,
	})
	if !errors.Is(err, services.ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _, _ := newAuthService(&mockUserRepo{})

	_, err := svc.Register(services.RegisterInput{
		Email:    "admin@clinic.example",
		Password: "Str0ng!pass",
		Name:     "Admin",
		Role:     models.UserRole("admin"),
	})
	if !errors.Is(err, services.ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "patient@clinic.example",
		Role:         models.RolePatient,
		PasswordHash: hashPassword(t, "Str0ng!pass"),
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(email string) (*models.User, error) { return user, nil },
	}
	svc, _, tokens := newAuthService(userRepo)

	result, err := svc.Login("patient@clinic.example", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.TOTPRequired {
		t.Error("TOTPRequired true for a user without TOTP")
	}

	claims, err := tokens.DecodeAccess(result.AccessToken)
	if err != nil {
		t.Fatalf("decoding access token: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("access token subject = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Role != models.RolePatient {
		t.Errorf("access token role = %q, want %q", claims.Role, models.RolePatient)
	}
	if _, err := tokens.DecodeRefresh(result.RefreshToken); err != nil {
		t.Errorf("decoding refresh token: %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		getByEmailFunc: func(email string) (*models.User, error) { return nil, nil },
	}
	svc, _, _ := newAuthService(userRepo)

	_, err := svc.Login("ghost@clinic.example", "whatever")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "patient@clinic.example",
		Role:         models.RolePatient,
		PasswordHash: hashPassword(t, "Str0ng!pass"),
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(email string) (*models.User, error) { return user, nil },
	}
	svc, tracker, _ := newAuthService(userRepo)

	_, err := svc.Login(user.Email, "wrong-password")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if got := tracker.FailedAttempts(user.ID); got != 1 {
		t.Errorf("FailedAttempts = %d, want 1", got)
	}
}

func TestLoginLockout(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "patient@clinic.example",
		Role:         models.RolePatient,
		PasswordHash: hashPassword(t, "Str0ng!pass"),
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(email string) (*models.User, error) { return user, nil },
	}
	svc, tracker, _ := newAuthService(userRepo)

	now := time.Now()
	tracker.SetClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(user.Email, "wrong-password"); !errors.Is(err, services.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	// Even the correct password is rejected while the lock holds.
	if _, err := svc.Login(user.Email, "Str0ng!pass"); !errors.Is(err, services.ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}

	now = now.Add(16 * time.Minute)

	result, err := svc.Login(user.Email, "Str0ng!pass")
	if err != nil {
		t.Fatalf("login after lockout expiry: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token after lockout expiry")
	}
	if got := tracker.FailedAttempts(user.ID); got != 0 {
		t.Errorf("FailedAttempts after successful login = %d, want 0", got)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "patient@clinic.example",
		Role:         models.RolePatient,
		PasswordHash: hashPassword(t, "Str0ng!pass"),
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(email string) (*models.User, error) { return user, nil },
	}
	svc, tracker, _ := newAuthService(userRepo)

	for i := 0; i < 4; i++ {
		_, _ = svc.Login(user.Email, "wrong-password")
	}
	if _, err := svc.Login(user.Email, "Str0ng!pass"); err != nil {
		t.Fatalf("login on the fifth try: %v", err)
	}
	if got := tracker.FailedAttempts(user.ID); got != 0 {
		t.Errorf("FailedAttempts = %d, want 0", got)
	}

	// The slate is clean: four more failures still do not lock.
	for i := 0; i < 4; i++ {
		_, _ = svc.Login(user.Email, "wrong-password")
	}
	if tracker.IsLockedOut(user.ID) {
		t.Error("locked out after 4 failures following a reset")
	}
}

func TestLoginTOTPFlow(t *testing.T) {
	enabled := true
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "MedConnect", AccountName: "doctor@clinic.example"})
	if err != nil {
		t.Fatalf("generating TOTP key: %v", err)
	}
	secret := key.Secret()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "doctor@clinic.example",
		Role:         models.RoleDoctor,
		PasswordHash: hashPassword(t, "Str0ng!pass"),
		TOTPSecret:   &secret,
		TOTPEnabled:  &enabled,
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(email string) (*models.User, error) { return user, nil },
		getByIDFunc:    func(id uuid.UUID) (*models.User, error) { return user, nil },
	}
	svc, tracker, _ := newAuthService(userRepo)

	result, err := svc.Login(user.Email, "Str0ng!pass")
	if err != nil {
		t.Fatalf("password step: %v", err)
	}
	if !result.TOTPRequired {
		t.Fatal("TOTPRequired = false for a TOTP-enabled user")
	}
	if result.AccessToken != "" || result.RefreshToken != "" {
		t.Fatal("tokens issued before the TOTP step completed")
	}

	if _, err := svc.LoginTOTP(result.LoginSessionID, "000000"); !errors.Is(err, services.ErrInvalidTOTPCode) {
		t.Fatalf("err = %v, want ErrInvalidTOTPCode", err)
	}
	if got := tracker.FailedAttempts(user.ID); got != 1 {
		t.Errorf("failed TOTP code did not count toward lockout: FailedAttempts = %d", got)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generating TOTP code: %v", err)
	}
	completed, err := svc.LoginTOTP(result.LoginSessionID, code)
	if err != nil {
		t.Fatalf("TOTP step: %v", err)
	}
	if completed.AccessToken == "" || completed.RefreshToken == "" {
		t.Error("expected a token pair after the TOTP step")
	}
	if got := tracker.FailedAttempts(user.ID); got != 0 {
		t.Errorf("FailedAttempts after completed login = %d, want 0", got)
	}

	// The session is single use.
	if _, err := svc.LoginTOTP(result.LoginSessionID, code); !errors.Is(err, services.ErrLoginSessionExpired) {
		t.Errorf("replayed session: err = %v, want ErrLoginSessionExpired", err)
	}
}

func TestLoginTOTPUnknownSession(t *testing.T) {
	svc, _, _ := newAuthService(&mockUserRepo{})

	_, err := svc.LoginTOTP(uuid.New(), "123456")
	if !errors.Is(err, services.ErrLoginSessionExpired) {
		t.Fatalf("err = %v, want ErrLoginSessionExpired", err)
	}
}

func TestRefresh(t *testing.T) {
	user := &models.User{
		ID:    uuid.New(),
		Email: "patient@clinic.example",
		Role:  models.RolePatient,
	}
	userRepo := &mockUserRepo{
		getByIDFunc: func(id uuid.UUID) (*models.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	svc, _, tokens := newAuthService(userRepo)

	access, refresh, err := tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}

	newAccess, err := svc.Refresh(refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	claims, err := tokens.DecodeAccess(newAccess)
	if err != nil {
		t.Fatalf("decoding refreshed access token: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("subject = %q, want %q", claims.UserID, user.ID)
	}

	// An access token is not accepted in place of a refresh token.
	if _, err := svc.Refresh(access); !errors.Is(err, security.ErrInvalidToken) {
		t.Errorf("access-as-refresh: err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshDeletedUser(t *testing.T) {
	userRepo := &mockUserRepo{
		getByIDFunc: func(id uuid.UUID) (*models.User, error) { return nil, nil },
	}
	svc, _, tokens := newAuthService(userRepo)

	_, refresh, err := tokens.Issue(uuid.New(), models.RolePatient)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}
	if _, err := svc.Refresh(refresh); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "patient@clinic.example",
		Role:         models.RolePatient,
		PasswordHash: hashPassword(t, "Old!passw0rd"),
	}
	var updated *models.User
	userRepo := &mockUserRepo{
		getByIDFunc: func(id uuid.UUID) (*models.User, error) { return user, nil },
		updateFunc: func(u *models.User) error {
			updated = u
			return nil
		},
	}
	svc, _, _ := newAuthService(userRepo)

	if err := svc.ChangePassword(user.ID, "wrong-old", "", "New!passw0rd"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: err = %v, want ErrInvalidCredentials", err)
	}

	err := svc.ChangePassword(user.ID, "Old!passw0rd", "", "short")
	var policyErr *security.PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("weak new password: err = %v, want *security.PasswordPolicyError", err)
	}

	if err := svc.ChangePassword(user.ID, "Old!passw0rd", "", "New!passw0rd"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("user was not persisted")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("New!passw0rd")); err != nil {
		t.Errorf("new hash does not verify the new password: %v", err)
	}
}
