package service

// Tests for authentication and account management: bcrypt verification,
// token issuance/refresh and the employee lifecycle.

import (
	"context"
	"testing"

	"gravoplus/internal/config"
	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cloned := *e
	r.employees[e.ID] = &cloned
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, errNotFound
	}
	return e, nil
}

func (r *stubEmployeeRepo) FindByUsername(_ context.Context, username string) (*model.Employee, error) {
	for _, e := range r.employees {
		if e.Username == username && e.Active {
			return e, nil
		}
	}
	return nil, errNotFound
}

func (r *stubEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		if e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubEmployeeRepo) ListAll(_ context.Context) ([]model.Employee, error) {
	out := make([]model.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	cloned := *e
	r.employees[e.ID] = &cloned
	return nil
}

func (r *stubEmployeeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if e, ok := r.employees[id]; ok {
		e.Active = false
	}
	return nil
}

func (r *stubEmployeeRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if e, ok := r.employees[id]; ok {
		e.Active = true
	}
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedEmployee(t *testing.T, repo *stubEmployeeRepo, username, password, role string) *model.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	e := &model.Employee{
		Username:     username,
		Name:         "Marie Leclerc",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestLogin(t *testing.T) {
	repo := newStubEmployeeRepo()
	cfg := authTestConfig()
	svc := NewAuthService(repo, cfg)
	emp := seedEmployee(t, repo, "marie", "motdepasse", "manager")
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "marie", Password: "motdepasse"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, emp.ID.String(), resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, emp.ID.String(), claims["user_id"])
	assert.Equal(t, "marie", claims["username"])
	assert.Equal(t, "manager", claims["role"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc := NewAuthService(repo, authTestConfig())
	seedEmployee(t, repo, "marie", "motdepasse", "employee")
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "marie", Password: "mauvais"})
	require.EqualError(t, err, "identifiants invalides")

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "inconnu", Password: "motdepasse"})
	require.EqualError(t, err, "identifiants invalides")
}

func TestRefresh(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc := NewAuthService(repo, authTestConfig())
	emp := seedEmployee(t, repo, "marie", "motdepasse", "admin")
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "marie", Password: "motdepasse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, emp.ID.String(), refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, "pas-un-token")
	require.EqualError(t, err, "refresh token invalide ou expiré")
}

func TestRefresh_DeactivatedAccountRejected(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc := NewAuthService(repo, authTestConfig())
	emp := seedEmployee(t, repo, "marie", "motdepasse", "employee")
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "marie", Password: "motdepasse"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateEmployee(ctx, emp.ID))
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.EqualError(t, err, "utilisateur introuvable ou inactif")
}

func TestEmployeeLifecycle(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc := NewAuthService(repo, authTestConfig())
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, dto.CreateEmployeeRequest{
		Username: "jdupont",
		Name:     "Jean Dupont",
		Password: "motdepasse",
		Role:     "employee",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	// password is stored hashed, never in clear
	stored := repo.employees[id]
	assert.NotEqual(t, "motdepasse", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("motdepasse")))

	updated, err := svc.UpdateEmployee(ctx, id, dto.UpdateEmployeeRequest{Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "manager", updated.Role)
	assert.Equal(t, "Jean Dupont", updated.Name, "empty fields leave the record untouched")

	require.NoError(t, svc.DeactivateEmployee(ctx, id))
	active, err := svc.ListEmployees(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListEmployees(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.ReactivateEmployee(ctx, id))
	active, err = svc.ListEmployees(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
