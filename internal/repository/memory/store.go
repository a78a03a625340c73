package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/repository"
)

// Store keeps users and cards in process memory. It is used when no Postgres
// DSN is configured and as the test double for services and handlers.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.User
	cards map[string]domain.Card
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		cards: make(map[string]domain.Card),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return userStore{s} }

// Cards exposes the store as a CardRepository.
func (s *Store) Cards() repository.CardRepository { return cardStore{s} }

func sameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}

func cloneCard(c domain.Card) domain.Card {
	c.Likes = append([]string{}, c.Likes...)
	return c
}

func sortedCards(cards []domain.Card) []domain.Card {
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].CreatedAt.Before(cards[j].CreatedAt) })
	return cards
}

type userStore struct{ s *Store }

func (u userStore) List(_ context.Context) ([]domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	users := make([]domain.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		users = append(users, user)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (u userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (u userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if sameEmail(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (u userStore) emailTakenLocked(email, exceptID string) bool {
	for id, user := range u.s.users {
		if id != exceptID && sameEmail(user.Email, email) {
			return true
		}
	}
	return false
}

func (u userStore) Create(_ context.Context, user *domain.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if u.emailTakenLocked(user.Email, "") {
		return domain.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = repository.NewID()
	}
	user.CreatedAt = u.s.now()
	u.s.users[user.ID] = *user
	return nil
}

func (u userStore) Update(_ context.Context, user *domain.User) error {
	if _, err := repository.ParseID(user.ID); err != nil {
		return err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	current, ok := u.s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if u.emailTakenLocked(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	current.Name = user.Name
	current.Phone = user.Phone
	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.Address = user.Address
	current.Image = user.Image
	u.s.users[user.ID] = current
	*user = current
	return nil
}

func (u userStore) SetBusiness(_ context.Context, id string, isBusiness bool) (*domain.User, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user.IsBusiness = isBusiness
	u.s.users[id] = user
	return &user, nil
}

func (u userStore) Delete(_ context.Context, id string) (*domain.User, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(u.s.users, id)
	return &user, nil
}

type cardStore struct{ s *Store }

func (c cardStore) List(_ context.Context) ([]domain.Card, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	cards := make([]domain.Card, 0, len(c.s.cards))
	for _, card := range c.s.cards {
		cards = append(cards, cloneCard(card))
	}
	return sortedCards(cards), nil
}

func (c cardStore) ListByOwner(_ context.Context, userID string) ([]domain.Card, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	cards := make([]domain.Card, 0)
	for _, card := range c.s.cards {
		if card.UserID == userID {
			cards = append(cards, cloneCard(card))
		}
	}
	return sortedCards(cards), nil
}

func (c cardStore) GetByID(_ context.Context, id string) (*domain.Card, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	card, ok := c.s.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	card = cloneCard(card)
	return &card, nil
}

func (c cardStore) GetByEmail(_ context.Context, email string) (*domain.Card, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	for _, card := range c.s.cards {
		if sameEmail(card.Email, email) {
			found := cloneCard(card)
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c cardStore) emailTakenLocked(email, exceptID string) bool {
	for id, card := range c.s.cards {
		if id != exceptID && sameEmail(card.Email, email) {
			return true
		}
	}
	return false
}

func (c cardStore) Create(_ context.Context, card *domain.Card) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.emailTakenLocked(card.Email, "") {
		return domain.ErrDuplicateEmail
	}
	if card.ID == "" {
		card.ID = repository.NewID()
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}
	card.CreatedAt = c.s.now()
	c.s.cards[card.ID] = cloneCard(*card)
	return nil
}

func (c cardStore) Update(_ context.Context, card *domain.Card) error {
	if _, err := repository.ParseID(card.ID); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	current, ok := c.s.cards[card.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.emailTakenLocked(card.Email, card.ID) {
		return domain.ErrDuplicateEmail
	}
	updated := current.WithContent(domain.CardContent{
		Title:       card.Title,
		Subtitle:    card.Subtitle,
		Description: card.Description,
		Phone:       card.Phone,
		Email:       card.Email,
		Web:         card.Web,
		Image:       card.Image,
		Address:     card.Address,
	})
	c.s.cards[card.ID] = updated
	*card = cloneCard(updated)
	return nil
}

func (c cardStore) ToggleLike(_ context.Context, id, userID string) (*domain.Card, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	card, ok := c.s.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	card = cloneCard(card)
	card.ToggleLike(userID)
	c.s.cards[id] = card
	result := cloneCard(card)
	return &result, nil
}

func (c cardStore) Delete(_ context.Context, id string) (*domain.Card, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	card, ok := c.s.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(c.s.cards, id)
	return &card, nil
}
