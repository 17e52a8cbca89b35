// Package users implements registration, login and account management on top
// of the credential store. All business rules about what a caller may do to
// an account live here; the HTTP layer only translates errors to statuses.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/campuslink/campuslink/internal/common"
	"github.com/campuslink/campuslink/internal/server/auth"
	"github.com/campuslink/campuslink/internal/server/config"
	"github.com/campuslink/campuslink/internal/server/models"
	usersrepo "github.com/campuslink/campuslink/internal/server/repositories/users"
)

// MinPasswordLength is the registration password policy.
const MinPasswordLength = 8

// RegistrationRequest carries the already-decoded registration input.
// Every field is required.
type RegistrationRequest struct {
	Name     string
	PhoneNo  string
	Email    string
	UserName string
	Password string
	Gender   string
}

type Service struct {
	repo                  usersrepo.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewService(repo usersrepo.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func validateRegistration(req *RegistrationRequest) error {
	required := []struct {
		name, value string
	}{
		{"name", req.Name},
		{"phoneno", req.PhoneNo},
		{"email", req.Email},
		{"username", req.UserName},
		{"password", req.Password},
		{"gender", req.Gender},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", common.ErrorValidation, f.name)
		}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: email is not valid", common.ErrorValidation)
	}
	if len(req.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	return nil
}

// Register validates the request, hashes the password and persists the new
// account. On success it returns the created user and a session token for
// it. Validation short-circuits on the first violation; no record is written
// on any failure path.
func (s *Service) Register(ctx context.Context, req *RegistrationRequest) (*models.User, string, error) {
	user, err := s.createUser(ctx, req, false)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// RegisterAdmin creates an administrator account. There is no HTTP route for
// this; it exists for the operator CLI.
func (s *Service) RegisterAdmin(ctx context.Context, req *RegistrationRequest) (*models.User, error) {
	return s.createUser(ctx, req, true)
}

func (s *Service) createUser(ctx context.Context, req *RegistrationRequest, isAdmin bool) (*models.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		PhoneNo:      req.PhoneNo,
		Email:        req.Email,
		UserName:     req.UserName,
		PasswordHash: hash,
		Gender:       req.Gender,
		IsAdmin:      isAdmin,
	}

	// Uniqueness is enforced by the store's constraint, not by a lookup here,
	// so two concurrent registrations cannot both succeed.
	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, common.ErrorDuplicateEmail
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the supplied credentials and issues a session token.
// An unknown email and a wrong password produce the same
// common.ErrorInvalidCredentials; callers must not be able to probe which
// addresses are registered.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", common.ErrorInternal
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID resolves a single account.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// List returns every account. The HTTP layer restricts this to admins.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Delete removes the target account. Only the account owner or an
// administrator may delete it; everyone else gets common.ErrorForbidden and
// the store is left untouched.
func (s *Service) Delete(ctx context.Context, callerID string, callerIsAdmin bool, targetID string) error {
	if callerID != targetID && !callerIsAdmin {
		return common.ErrorForbidden
	}

	deleted, err := s.repo.DeleteByID(ctx, targetID)
	if err != nil {
		return common.ErrorInternal
	}
	if !deleted {
		return common.ErrorNotFound
	}

	return nil
}
