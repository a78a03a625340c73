package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/card-directory/internal/auth"
	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/events"
	"github.com/spec-kit/card-directory/internal/repository/memory"
	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

type fixture struct {
	store      *memory.Store
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	users      *UserService
	cards      *CardService
	published  []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      memory.NewStore(),
		tokens:     auth.NewTokenManager("test-secret", 0),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered, events.EventUserUpdated, events.EventUserBusinessChanged,
		events.EventUserDeleted, events.EventCardCreated,
		events.EventCardUpdated, events.EventCardDeleted, events.EventCardLikeToggled,
	} {
		f.dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e)
			return nil
		})
	}

	users, err := NewUserService(UserDependencies{
		UserRepo:   f.store.Users(),
		Tokens:     f.tokens,
		Dispatcher: f.dispatcher,
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("new user service: %v", err)
	}
	f.users = users
	f.cards = NewCardService(CardDependencies{CardRepo: f.store.Cards(), Dispatcher: f.dispatcher})
	return f
}

func registration(email string, business bool) UserRegistration {
	return UserRegistration{
		Name:       domain.Name{First: "Ada", Last: "Lovelace"},
		IsBusiness: business,
		Phone:      "0501234567",
		Email:      email,
		Password:   "Abcdef1!",
		Address:    domain.Address{Country: "Israel", City: "Haifa", Street: "Herzl", HouseNumber: "5"},
	}
}

// login registers a user and returns the verified claims of its token.
func (f *fixture) login(t *testing.T, email string, business bool) (*domain.User, *domain.Claims) {
	t.Helper()
	user, err := f.users.Register(context.Background(), registration(email, business))
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	token, _, err := f.users.Login(context.Background(), email, "Abcdef1!")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	claims, err := f.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify %s: %v", email, err)
	}
	return user, claims
}

func content(email string) domain.CardContent {
	return domain.CardContent{
		Title:       "Coffee House",
		Subtitle:    "Fresh beans",
		Description: "Neighbourhood coffee",
		Phone:       "050-1234567",
		Email:       email,
		Address:     domain.Address{Country: "Israel", City: "Haifa", Street: "Herzl", HouseNumber: "5", Zip: "12345"},
	}
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError %s, got %v", code, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code, domainErr.Code, domainErr.Message)
	}
}
