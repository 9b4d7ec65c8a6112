package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/campushub/portal-backend/internal/users"
	pkgAuth "github.com/campushub/portal-backend/pkg/auth"
	"github.com/campushub/portal-backend/pkg/config"
	"github.com/campushub/portal-backend/pkg/db/models"
	"github.com/campushub/portal-backend/pkg/enums"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	created []*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.created = append(f.created, user)
	if f.byEmail == nil {
		f.byEmail = map[string]*models.User{}
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

type fakeSessions struct {
	created []string
	revoked []string
}

func (f *fakeSessions) Create(ctx context.Context, sessionID string) error {
	f.created = append(f.created, sessionID)
	return nil
}

func (f *fakeSessions) Revoke(ctx context.Context, sessionID string) error {
	f.revoked = append(f.revoked, sessionID)
	return nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "campushub-test",
		ExpirationMinutes: 30,
	}
	pwdCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return jwtCfg, pwdCfg
}

func newTestService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessions) Service {
	t.Helper()
	jwtCfg, pwdCfg := testConfigs()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      jwtCfg,
		PasswordConfig: pwdCfg,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *models.User {
	t.Helper()
	_, pwdCfg := testConfigs()
	hash, err := security.HashPassword(password, pwdCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Asha Iyer",
		Role:         enums.UserRoleStudent,
		Department:   "CSE",
	}
	if repo.byEmail == nil {
		repo.byEmail = map[string]*models.User{}
	}
	repo.byEmail[email] = user
	return user
}

func TestRegisterIssuesTokenAndSession(t *testing.T) {
	repo := &fakeUserRepo{}
	sessions := &fakeSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:      "Asha@University.Edu",
		Password:   "correct-horse",
		Name:       "Asha Iyer",
		Role:       "student",
		Department: "CSE",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 user created, got %d", len(repo.created))
	}
	if repo.created[0].Email != "asha@university.edu" {
		t.Fatalf("email not normalized: %s", repo.created[0].Email)
	}
	if repo.created[0].PasswordHash == "correct-horse" {
		t.Fatal("password stored in clear")
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected 1 session marker, got %d", len(sessions.created))
	}

	jwtCfg, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.ID != sessions.created[0] {
		t.Fatalf("token jti %q does not match session marker %q", claims.ID, sessions.created[0])
	}
	if claims.Department != "CSE" || claims.Role != enums.UserRoleStudent {
		t.Fatalf("claims missing identity fields: %+v", claims)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "asha@university.edu", "whatever-pass")
	svc := newTestService(t, repo, &fakeSessions{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:      "asha@university.edu",
		Password:   "another-pass",
		Name:       "Someone Else",
		Role:       "student",
		Department: "CSE",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t, &fakeUserRepo{}, &fakeSessions{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:      "x@university.edu",
		Password:   "long-enough",
		Name:       "X",
		Role:       "dean",
		Department: "CSE",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := &fakeUserRepo{}
	user := seedUser(t, repo, "asha@university.edu", "correct-horse")
	sessions := &fakeSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "asha@university.edu",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response: %s", resp.User.ID)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected session marker, got %d", len(sessions.created))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "asha@university.edu", "correct-horse")
	svc := newTestService(t, repo, &fakeSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "asha@university.edu",
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := newTestService(t, &fakeUserRepo{}, &fakeSessions{})
	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@university.edu",
		Password: "irrelevant",
	})
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not be distinguishable, got %q", typed.Message())
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(t, &fakeUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "some-jti"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "some-jti" {
		t.Fatalf("session not revoked: %+v", sessions.revoked)
	}
}
