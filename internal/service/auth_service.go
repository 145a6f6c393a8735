package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/repository"
	"brokerage/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	repo      repository.AdminRepository
	jwtSecret string
	ttl       time.Duration
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Admin     *models.AdminUser `json:"admin"`
}

type CreateAdminInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,notblank,max=200"`
	Password string `json:"password" validate:"required"`
}

func NewAuthService(repo repository.AdminRepository, jwtSecret string) *AuthService {
	return &AuthService{repo: repo, jwtSecret: jwtSecret, ttl: middleware.SessionTTL}
}

// Login checks the credentials and issues a session token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validate(in, nil); err != nil {
		return nil, err
	}

	admin, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, models.NewInternalError(err)
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, expiresAt, err := middleware.IssueToken(s.jwtSecret, admin.ID, s.ttl)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// Me returns the admin behind a validated session.
func (s *AuthService) Me(ctx context.Context, adminID uint) (*models.AdminUser, error) {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Session no longer valid")
		}
		return nil, models.NewInternalError(err)
	}
	return admin, nil
}

// CreateAdmin registers a new admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.AdminUser, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	var extra map[string]string
	if err := validation.ValidateAdminPassword(in.Password); err != nil && in.Password != "" {
		extra = map[string]string{"password": err.Error()}
	}
	if err := validate(in, extra); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	admin := &models.AdminUser{Email: in.Email, Name: in.Name, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, models.NewInternalError(err)
	}
	return admin, nil
}

// ResetPassword replaces the password of the admin with email.
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	if err := validation.ValidateAdminPassword(password); err != nil {
		return models.NewFieldValidationError(map[string]string{"password": err.Error()})
	}
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return repoError(err, "AdminUser", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return repoError(s.repo.UpdatePassword(ctx, admin.ID, string(hash)), "AdminUser", email)
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return admins, nil
}
