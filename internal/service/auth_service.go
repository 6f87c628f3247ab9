package service

import (
	"context"
	"time"

	"summitgear/internal/apierror"
	"summitgear/internal/config"
	"summitgear/internal/dto"
	"summitgear/internal/model"
	"summitgear/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.EmployeeRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apierror.Validation("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Validation("invalid credentials")
	}
	return s.tokenPair(employee)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Validation("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Validation("malformed token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apierror.Validation("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.Validation("malformed token")
	}

	employee, err := s.repo.FindByID(ctx, uid)
	if err != nil || !employee.Active {
		return nil, apierror.Validation("employee not found or inactive")
	}
	return s.tokenPair(employee)
}

func (s *authService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	employee := &model.Employee{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apierror.Validation("invalid branch_id")
		}
		employee.BranchID = &branchID
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, apierror.Conflict("username %s already exists", req.Username)
	}
	resp := employeeToResponse(employee)
	return &resp, nil
}

func (s *authService) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	resp := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = employeeToResponse(&employees[i])
	}
	return resp, nil
}

func (s *authService) UpdateEmployee(ctx context.Context, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("employee %s not found", id)
	}
	if req.FullName != "" {
		employee.FullName = req.FullName
	}
	if req.Email != nil {
		employee.Email = req.Email
	}
	if req.Role != "" {
		employee.Role = req.Role
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apierror.Validation("invalid branch_id")
		}
		employee.BranchID = &branchID
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, apierror.Internal(err)
		}
		employee.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, apierror.Internal(err)
	}
	resp := employeeToResponse(employee)
	return &resp, nil
}

func (s *authService) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func (s *authService) tokenPair(e *model.Employee) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(e, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	refreshToken, err := s.generateToken(e, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         employeeToResponse(e),
	}, nil
}

func (s *authService) generateToken(e *model.Employee, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  e.ID.String(),
		"username": e.Username,
		"role":     e.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	if e.BranchID != nil {
		claims["branch_id"] = e.BranchID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func employeeToResponse(e *model.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:       e.ID.String(),
		Username: e.Username,
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
		Active:   e.Active,
	}
	if e.BranchID != nil {
		bid := e.BranchID.String()
		resp.BranchID = &bid
	}
	return resp
}
