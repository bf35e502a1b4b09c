package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/repository"
)

// UserService handles registration and authentication.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// RegisterInput contains the data needed to register a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// RegisterOutput contains the registered user and an access token.
type RegisterOutput struct {
	User  *domain.User
	Token string
}

// LoginInput contains login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput contains the authenticated user and an access token.
type LoginOutput struct {
	User  *domain.User
	Token string
}

// GetUserInput identifies a user to fetch.
type GetUserInput struct {
	ID primitive.ObjectID
}

// GetUserOutput contains the fetched user.
type GetUserOutput struct {
	User *domain.User
}

// =============================================================================
// Service Methods
// =============================================================================

// Register creates a new user with a bcrypt password hash and issues an
// access token. The default role is user; publisher/admin must be granted
// explicitly.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	user := domain.NewUser(input.Name, input.Email, string(hash))
	if input.Role != "" {
		if err := domain.ValidateRole(input.Role); err != nil {
			return nil, err
		}
		user.Role = input.Role
	}

	if err := s.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to register user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("user registered")
	return &RegisterOutput{User: user, Token: token}, nil
}

// Login verifies credentials and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("user logged in")
	return &LoginOutput{User: user, Token: token}, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, input GetUserInput) (*GetUserOutput, error) {
	user, err := s.userRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return &GetUserOutput{User: user}, nil
}
