package service

import (
	"context"
	"errors"
	"time"

	"gravoplus/internal/config"
	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id uuid.UUID) error
	ReactivateEmployee(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.EmployeeRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("identifiants invalides")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("identifiants invalides")
	}

	accessToken, err := s.generateToken(emp, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(emp, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *employeeToResponse(emp),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalide ou expiré")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("token mal formé")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formé")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formé")
	}

	emp, err := s.repo.FindByID(ctx, uid)
	if err != nil || !emp.Active {
		return nil, errors.New("utilisateur introuvable ou inactif")
	}

	accessToken, err := s.generateToken(emp, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.generateToken(emp, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *employeeToResponse(emp),
	}, nil
}

func (s *authService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	emp := &model.Employee{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		Salary:       req.Salary,
		Active:       true,
	}
	if req.HiredAt != nil {
		if hired, err := time.Parse("2006-01-02", *req.HiredAt); err == nil {
			emp.HiredAt = &hired
		}
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return employeeToResponse(emp), nil
}

func (s *authService) ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error) {
	var emps []model.Employee
	var err error
	if includeInactive {
		emps, err = s.repo.ListAll(ctx)
	} else {
		emps, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, len(emps))
	for i := range emps {
		out[i] = *employeeToResponse(&emps[i])
	}
	return out, nil
}

func (s *authService) UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("utilisateur introuvable")
	}
	if req.Name != "" {
		emp.Name = req.Name
	}
	if req.Email != nil {
		emp.Email = req.Email
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	if req.Role != "" {
		emp.Role = req.Role
	}
	if req.Salary != nil {
		emp.Salary = req.Salary
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		emp.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return employeeToResponse(emp), nil
}

func (s *authService) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivateEmployee(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *authService) generateToken(emp *model.Employee, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  emp.ID.String(),
		"username": emp.Username,
		"role":     emp.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func employeeToResponse(e *model.Employee) *dto.EmployeeResponse {
	resp := &dto.EmployeeResponse{
		ID:       e.ID.String(),
		Username: e.Username,
		Name:     e.Name,
		Email:    e.Email,
		Phone:    e.Phone,
		Role:     e.Role,
		Salary:   e.Salary,
		Active:   e.Active,
	}
	if e.HiredAt != nil {
		hired := e.HiredAt.Format("2006-01-02")
		resp.HiredAt = &hired
	}
	return resp
}
