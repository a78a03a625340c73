package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/card-directory/internal/auth"
	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/events"
	"github.com/spec-kit/card-directory/internal/repository"
	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

// UserRegistration describes a validated registration payload.
type UserRegistration struct {
	Name       domain.Name
	IsBusiness bool
	Phone      string
	Email      string
	Password   string
	Address    domain.Address
	Image      domain.Image
}

// UserProfile describes a validated profile replacement. An empty Password
// keeps the stored hash.
type UserProfile struct {
	Name     domain.Name
	Phone    string
	Email    string
	Password string
	Address  domain.Address
	Image    domain.Image
}

// UserService coordinates registration, login and profile management.
type UserService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	dummyHash  string
}

// UserDependencies encapsulates requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	BcryptCost int
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) (*UserService, error) {
	// Compared against on unknown emails so both login failures cost a bcrypt round.
	dummy, err := auth.HashPassword("unused-password", deps.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &UserService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		dummyHash:  dummy,
	}, nil
}

// Register creates a new account. New accounts are never admins.
func (s *UserService) Register(ctx context.Context, input UserRegistration) (*domain.User, error) {
	if err := auth.CanRegister(nil); err != nil {
		return nil, err
	}

	taken, err := emailTaken(ctx, s.users.GetByEmail, userID, input.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewDuplicateEmail(duplicateEmailMessage("user"))
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		IsBusiness:   input.IsBusiness,
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Image:        input.Image,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, resourceError("user", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventUserRegistered,
		ResourceID: user.ID,
		ActorID:    user.ID,
		Payload:    events.UserRegisteredPayload{IsBusiness: user.IsBusiness},
	})
	return user, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		auth.VerifyPassword(s.dummyHash, password)
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return "", time.Time{}, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	return s.tokens.Issue(user.Claims())
}

// List returns every user to admins.
func (s *UserService) List(ctx context.Context, claims *domain.Claims) ([]domain.User, error) {
	if err := auth.CanListUsers(claims); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, claims *domain.Claims, id string) (*domain.User, error) {
	if err := auth.CanViewUser(claims); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, resourceError("user", err)
	}
	return user, nil
}

// Update replaces the profile of user id. The password is re-hashed when a
// new one is supplied.
func (s *UserService) Update(ctx context.Context, claims *domain.Claims, id string, input UserProfile) (*domain.User, error) {
	if err := auth.CanUpdateUser(claims, id); err != nil {
		return nil, err
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, resourceError("user", err)
	}

	taken, err := emailTaken(ctx, s.users.GetByEmail, userID, input.Email, current.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewDuplicateEmail(duplicateEmailMessage("user"))
	}

	hash := current.PasswordHash
	if input.Password != "" {
		if hash, err = auth.HashPassword(input.Password, s.bcryptCost); err != nil {
			return nil, err
		}
	}

	updated := &domain.User{
		ID:           current.ID,
		Name:         input.Name,
		IsBusiness:   current.IsBusiness,
		IsAdmin:      current.IsAdmin,
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Image:        input.Image,
		CreatedAt:    current.CreatedAt,
	}
	if err := s.users.Update(ctx, updated); err != nil {
		return nil, resourceError("user", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventUserUpdated,
		ResourceID: updated.ID,
		ActorID:    claims.UserID,
		Payload:    events.UserUpdatedPayload{PasswordChanged: input.Password != ""},
	})
	return updated, nil
}

// SetBusiness changes the business flag of user id.
func (s *UserService) SetBusiness(ctx context.Context, claims *domain.Claims, id string, isBusiness bool) (*domain.User, error) {
	if err := auth.CanToggleBusiness(claims, id); err != nil {
		return nil, err
	}
	user, err := s.users.SetBusiness(ctx, id, isBusiness)
	if err != nil {
		return nil, resourceError("user", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventUserBusinessChanged,
		ResourceID: user.ID,
		ActorID:    claims.UserID,
		Payload:    events.UserBusinessChangedPayload{IsBusiness: user.IsBusiness},
	})
	return user, nil
}

// Delete removes user id. Cards the user created are kept.
func (s *UserService) Delete(ctx context.Context, claims *domain.Claims, id string) (*domain.User, error) {
	if err := auth.CanDeleteUser(claims); err != nil {
		return nil, err
	}
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, resourceError("user", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventUserDeleted,
		ResourceID: user.ID,
		ActorID:    claims.UserID,
	})
	return user, nil
}

func userID(u *domain.User) string { return u.ID }
