package service

import (
	"context"

	"github.com/spec-kit/card-directory/internal/auth"
	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/events"
	"github.com/spec-kit/card-directory/internal/repository"
	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

// CardService coordinates card workflows.
type CardService struct {
	cards      repository.CardRepository
	dispatcher events.Dispatcher
}

// CardDependencies bundles requirements for the card service.
type CardDependencies struct {
	CardRepo   repository.CardRepository
	Dispatcher events.Dispatcher
}

// NewCardService constructs the service.
func NewCardService(deps CardDependencies) *CardService {
	return &CardService{cards: deps.CardRepo, dispatcher: deps.Dispatcher}
}

// List returns every card.
func (s *CardService) List(ctx context.Context, claims *domain.Claims) ([]domain.Card, error) {
	if err := auth.CanListCards(claims); err != nil {
		return nil, err
	}
	return s.cards.List(ctx)
}

// ListMine returns the cards created by the caller.
func (s *CardService) ListMine(ctx context.Context, claims *domain.Claims) ([]domain.Card, error) {
	if err := auth.CanListOwnCards(claims); err != nil {
		return nil, err
	}
	return s.cards.ListByOwner(ctx, claims.UserID)
}

// Get returns a single card.
func (s *CardService) Get(ctx context.Context, claims *domain.Claims, id string) (*domain.Card, error) {
	if err := auth.CanViewCard(claims); err != nil {
		return nil, err
	}
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, resourceError("card", err)
	}
	return card, nil
}

// Create stores a new card owned by the caller.
func (s *CardService) Create(ctx context.Context, claims *domain.Claims, content domain.CardContent) (*domain.Card, error) {
	if err := auth.CanCreateCard(claims); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, content.Email, ""); err != nil {
		return nil, err
	}

	card := domain.Card{UserID: claims.UserID, Likes: []string{}}.WithContent(content)
	if err := s.cards.Create(ctx, &card); err != nil {
		return nil, resourceError("card", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventCardCreated,
		ResourceID: card.ID,
		ActorID:    claims.UserID,
		Payload:    events.CardPayload{OwnerID: card.UserID},
	})
	return &card, nil
}

// Update replaces the content of a card owned by the caller.
func (s *CardService) Update(ctx context.Context, claims *domain.Claims, id string, content domain.CardContent) (*domain.Card, error) {
	if claims == nil {
		return nil, auth.CanUpdateCard(nil, nil)
	}
	current, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, resourceError("card", err)
	}
	if err := auth.CanUpdateCard(claims, current); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, content.Email, current.ID); err != nil {
		return nil, err
	}

	updated := current.WithContent(content)
	if err := s.cards.Update(ctx, &updated); err != nil {
		return nil, resourceError("card", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventCardUpdated,
		ResourceID: updated.ID,
		ActorID:    claims.UserID,
		Payload:    events.CardPayload{OwnerID: updated.UserID},
	})
	return &updated, nil
}

// ToggleLike adds the caller to the likes of the card, or removes them when
// already present.
func (s *CardService) ToggleLike(ctx context.Context, claims *domain.Claims, id string) (*domain.Card, error) {
	if err := auth.CanLikeCard(claims); err != nil {
		return nil, err
	}
	card, err := s.cards.ToggleLike(ctx, id, claims.UserID)
	if err != nil {
		return nil, resourceError("card", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventCardLikeToggled,
		ResourceID: card.ID,
		ActorID:    claims.UserID,
		Payload: events.CardLikeToggledPayload{
			Liked:      card.LikedBy(claims.UserID),
			TotalLikes: len(card.Likes),
		},
	})
	return card, nil
}

// Delete removes a card owned by the caller, or any card for admins.
func (s *CardService) Delete(ctx context.Context, claims *domain.Claims, id string) (*domain.Card, error) {
	if claims == nil {
		return nil, auth.CanDeleteCard(nil, nil)
	}
	current, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, resourceError("card", err)
	}
	if err := auth.CanDeleteCard(claims, current); err != nil {
		return nil, err
	}

	deleted, err := s.cards.Delete(ctx, current.ID)
	if err != nil {
		return nil, resourceError("card", err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventCardDeleted,
		ResourceID: deleted.ID,
		ActorID:    claims.UserID,
		Payload:    events.CardPayload{OwnerID: deleted.UserID},
	})
	return deleted, nil
}

func (s *CardService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	taken, err := emailTaken(ctx, s.cards.GetByEmail, cardID, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewDuplicateEmail(duplicateEmailMessage("card"))
	}
	return nil
}

func cardID(c *domain.Card) string { return c.ID }
