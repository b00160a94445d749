package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/id"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// standingsInvalidator is notified when a new user changes the standings
// table.
type standingsInvalidator interface {
	InvalidateStandings(ctx context.Context)
}

type UserService struct {
	store      store.Store
	ids        id.Generator
	validate   *validator.Validate
	standings  standingsInvalidator
	bcryptCost int
	logger     *logging.Logger
	now        func() time.Time
}

func NewUserService(st store.Store, ids id.Generator, validate *validator.Validate, standings standingsInvalidator, logger *logging.Logger) *UserService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &UserService{
		store:      st,
		ids:        ids,
		validate:   validate,
		standings:  standings,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Register")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" {
		return user.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := s.validate.VarCtx(ctx, input.Email, "omitempty,email"); err != nil {
		return user.User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.ids.NewID()
	if err != nil {
		return user.User{}, err
	}

	u := user.User{
		ID:           userID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	if err := s.store.Repositories().Users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return user.User{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	if s.standings != nil {
		s.standings.InvalidateStandings(ctx)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.List")
	defer span.End()

	items, err := s.store.Repositories().Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if !id.Valid(userID) {
		return user.User{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	u, exists, err := s.store.Repositories().Users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return u, nil
}
