package Services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"TaskTracker/Models"
	"TaskTracker/Security"
	"TaskTracker/apperrors"
)

// Outcome messages returned to clients by the auth endpoints.
const (
	MsgRegistered    = "Employee registered successfully!"
	MsgAlreadyExists = "User already exists!"
	MsgUserNotFound  = "User not found!"
	MsgWrongPassword = "Wrong password!"
)

// TokenIssuer signs session tokens for authenticated employees.
type TokenIssuer interface {
	Issue(employeeID uint, name, email string) (string, time.Time, error)
}

// LoginResult is the success variant of Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Employee  *Models.Employee
}

type AuthService struct {
	DB         *gorm.DB
	Tokens     TokenIssuer
	Validator  *Validator
	BcryptCost int
}

func NewAuthService(db *gorm.DB, tokens TokenIssuer, validator *Validator) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Validator: validator}
}

// Register creates an employee unless the email is already taken.
func (s *AuthService) Register(ctx context.Context, req Models.SignupRequest) (*Models.Employee, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	var existing Models.Employee
	err := s.DB.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewAlreadyExists(MsgAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabase("find employee by email", err)
	}

	hash, err := Security.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return nil, apperrors.NewValidation("password cannot be hashed", err)
	}

	employee := Models.Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.DB.WithContext(ctx).Create(&employee).Error; err != nil {
		// A concurrent signup can pass the lookup above; the unique index decides.
		if isUniqueViolation(err) {
			return nil, apperrors.NewAlreadyExists(MsgAlreadyExists)
		}
		return nil, apperrors.NewDatabase("create employee", err)
	}
	return &employee, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := Models.SigninRequest{Email: normalizeEmail(email), Password: password}
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	email = req.Email

	var employee Models.Employee
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.AppError{Kind: apperrors.KindNotFound, Message: MsgUserNotFound}
	}
	if err != nil {
		return nil, apperrors.NewDatabase("find employee by email", err)
	}

	ok, err := Security.CheckPassword(employee.PasswordHash, password)
	if err != nil {
		return nil, apperrors.NewDatabase("compare password hash", err)
	}
	if !ok {
		return nil, apperrors.NewInvalidCredentials(MsgWrongPassword)
	}

	token, expiresAt, err := s.Tokens.Issue(employee.ID, employee.Name, employee.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Employee: &employee}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
