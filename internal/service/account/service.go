package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/repository"
)

// MaxBioLength mirrors the users.bio column size, in characters.
const MaxBioLength = 500

// dummyHash is compared against when the username is unknown so that a
// missing user costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("muzz-timing-equaliser"), bcrypt.DefaultCost)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Password string
	Gender   string
}

// ProfileUpdate carries optional profile changes; nil fields are left untouched.
type ProfileUpdate struct {
	Bio     *string
	Picture *string // stored upload name
}

// Service implements registration, login/logout, identity resolution
// and profile updates on top of the user repository and session store.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewAccountService creates a new account service with dependencies from AppContext.
func NewAccountService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// Register creates a user and logs it in.
//
// Behavior:
//   - Username and gender are trimmed; either left blank is ErrInvalidInput.
//   - Fails with ErrDuplicateUsername if the username is taken (checked up
//     front, and again by the unique index on insert).
//   - Stores a bcrypt hash, never the password.
//   - Opens a session and returns its token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*db.User, string, error) {
	s.appCtx.Logger.DebugContext(ctx, "Register called", "username", in.Username, "gender", in.Gender)

	in.Username = strings.TrimSpace(in.Username)
	in.Gender = strings.TrimSpace(in.Gender)
	if in.Username == "" {
		return nil, "", fmt.Errorf("%w: username is required", svcErr.ErrInvalidInput)
	}
	if in.Gender == "" {
		return nil, "", fmt.Errorf("%w: gender is required", svcErr.ErrInvalidInput)
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, "", svcErr.ErrDuplicateUsername
	} else if !errors.Is(err, svcErr.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &db.User{
		Username:       in.Username,
		PasswordHash:   string(hash),
		Gender:         in.Gender,
		ProfilePicture: db.DefaultProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, svcErr.ErrDuplicateUsername) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.appCtx.Sessions.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.appCtx.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies credentials and opens a session.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*db.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, svcErr.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, "", svcErr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", svcErr.ErrInvalidCredentials
	}

	token, err := s.appCtx.Sessions.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout ends the session. Idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.appCtx.Sessions.Destroy(ctx, token)
}

// CurrentUser resolves the session token to its user.
// A session whose user no longer exists counts as unauthenticated.
func (s *Service) CurrentUser(ctx context.Context, token string) (*db.User, error) {
	id, err := s.appCtx.Sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, svcErr.ErrNotFound) {
		return nil, svcErr.ErrUnauthenticated
	}
	return user, err
}

// GetUser loads any user by id; ErrNotFound if missing.
func (s *Service) GetUser(ctx context.Context, id uint64) (*db.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile replaces the bio and/or picture reference and returns the fresh row.
func (s *Service) UpdateProfile(ctx context.Context, userID uint64, upd ProfileUpdate) (*db.User, error) {
	fields := map[string]any{}
	if upd.Bio != nil {
		if utf8.RuneCountInString(*upd.Bio) > MaxBioLength {
			return nil, fmt.Errorf("%w: bio longer than %d characters", svcErr.ErrInvalidInput, MaxBioLength)
		}
		fields["bio"] = *upd.Bio
	}
	if upd.Picture != nil && *upd.Picture != "" {
		fields["profile_picture"] = *upd.Picture
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.appCtx.Logger.DebugContext(ctx, "profile updated", "user_id", userID, "fields", len(fields))
	return s.users.GetByID(ctx, userID)
}
