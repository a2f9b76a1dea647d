package service

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, sess *session.Session, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, sess *session.Session)
	Me(sess *session.Session) (*models.MeResponse, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	repo    repository.AdminRepository
	limiter repository.RateLimitRepository
}

// Compared against when the username is unknown so both failure paths cost one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tech-ecolab-dummy"), bcrypt.DefaultCost)

func NewAuthService(repo repository.AdminRepository, limiter repository.RateLimitRepository) AuthService {
	if limiter == nil {
		limiter = repository.NewNoopRateLimiter()
	}

	return &authService{repo: repo, limiter: limiter}
}

func (s *authService) Login(ctx context.Context, sess *session.Session, req *models.LoginRequest) (*models.LoginResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	// check rate limit
	allowed, remaining, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, req.Username)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		logger.Warn("Login rate limited", "username", req.Username, "retry_after", retryAfter)
		return nil, errors.TooManyRequestsError("Too many login attempts. Please try again later.").WithRetryAfter(retryAfter)
	}

	admin, err := s.repo.GetAdminByUsername(ctx, req.Username)
	if err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, errors.DatabaseError("Failed to fetch admin").WithError(err)
	}

	hash := dummyHash
	if admin != nil {
		hash = []byte(admin.PasswordHash)
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil || admin == nil {
		logger.Info("Login failed", "username", req.Username, "remaining_tries", remaining)
		return nil, errors.UnauthorizedError("Invalid credentials")
	}

	if err := s.limiter.ResetLoginAttempts(ctx, req.Username); err != nil {
		logger.Warn("Failed to reset login attempts", "username", req.Username, "error", err)
	}

	sess.Regenerate(admin.ID)

	return &models.LoginResponse{ID: admin.ID, Username: admin.Username}, nil
}

func (s *authService) Logout(ctx context.Context, sess *session.Session) {
	if id, ok := sess.Admin(); ok {
		middleware.LoggerFromContext(ctx).Info("Admin logged out", "admin_id", id)
	}

	sess.Destroy()
}

func (s *authService) Me(sess *session.Session) (*models.MeResponse, error) {
	id, ok := sess.Admin()
	if !ok {
		return nil, errors.UnauthorizedError("Unauthenticated")
	}

	return &models.MeResponse{ID: id}, nil
}

// EnsureAdmin creates the bootstrap admin when no account with that username exists yet.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {

	if username == "" || password == "" {
		return nil
	}

	_, err := s.repo.GetAdminByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !stdErrors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up admin %q: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{Username: username, PasswordHash: string(hash)}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil && !stdErrors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("failed to create admin %q: %w", username, err)
	}

	middleware.LoggerFromContext(ctx).Info("Bootstrap admin ready", "username", username)

	return nil
}
