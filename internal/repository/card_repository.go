package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/card-directory/internal/domain"
)

// CardRepository encapsulates card persistence.
type CardRepository interface {
	List(ctx context.Context) ([]domain.Card, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Card, error)
	GetByID(ctx context.Context, id string) (*domain.Card, error)
	GetByEmail(ctx context.Context, email string) (*domain.Card, error)
	Create(ctx context.Context, card *domain.Card) error
	Update(ctx context.Context, card *domain.Card) error
	ToggleLike(ctx context.Context, id, userID string) (*domain.Card, error)
	Delete(ctx context.Context, id string) (*domain.Card, error)
}

const cardColumns = `id::text, title, subtitle, description, phone, email, web, image, address, likes, user_id, created_at`

type cardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository instantiates repository.
func NewCardRepository(pool *pgxpool.Pool) CardRepository {
	return &cardRepository{pool: pool}
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	if err := row.Scan(
		&card.ID,
		&card.Title,
		&card.Subtitle,
		&card.Description,
		&card.Phone,
		&card.Email,
		&card.Web,
		&card.Image,
		&card.Address,
		&card.Likes,
		&card.UserID,
		&card.CreatedAt,
	); err != nil {
		return nil, err
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}
	return &card, nil
}

func (r *cardRepository) list(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list cards", err)
	}
	defer rows.Close()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, mapError("scan card", err)
		}
		cards = append(cards, *card)
	}
	return cards, mapError("list cards", rows.Err())
}

func (r *cardRepository) List(ctx context.Context) ([]domain.Card, error) {
	return r.list(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY created_at`)
}

func (r *cardRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Card, error) {
	return r.list(ctx, `SELECT `+cardColumns+` FROM cards WHERE user_id=$1 ORDER BY created_at`, userID)
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	cid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	card, err := scanCard(r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id=$1`, cid))
	if err != nil {
		return nil, mapError("get card", err)
	}
	return card, nil
}

func (r *cardRepository) GetByEmail(ctx context.Context, email string) (*domain.Card, error) {
	card, err := scanCard(r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE lower(email)=lower($1)`, email))
	if err != nil {
		return nil, mapError("get card by email", err)
	}
	return card, nil
}

func (r *cardRepository) Create(ctx context.Context, card *domain.Card) error {
	const query = `
        INSERT INTO cards (id, title, subtitle, description, phone, email, web, image, address, likes, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at`

	if card.ID == "" {
		card.ID = NewID()
	}
	if card.Likes == nil {
		card.Likes = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		card.ID,
		card.Title,
		card.Subtitle,
		card.Description,
		card.Phone,
		card.Email,
		card.Web,
		card.Image,
		card.Address,
		card.Likes,
		card.UserID,
	).Scan(&card.CreatedAt)
	return mapError("create card", err)
}

// Update replaces the content fields of the card. Likes, owner and creation
// time are left as stored.
func (r *cardRepository) Update(ctx context.Context, card *domain.Card) error {
	cid, err := ParseID(card.ID)
	if err != nil {
		return err
	}
	const query = `
        UPDATE cards SET title=$1, subtitle=$2, description=$3, phone=$4, email=$5, web=$6, image=$7, address=$8
        WHERE id=$9
        RETURNING ` + cardColumns

	updated, err := scanCard(r.pool.QueryRow(ctx, query,
		card.Title,
		card.Subtitle,
		card.Description,
		card.Phone,
		card.Email,
		card.Web,
		card.Image,
		card.Address,
		cid,
	))
	if err != nil {
		return mapError("update card", err)
	}
	*card = *updated
	return nil
}

// ToggleLike adds userID to the likes set when absent and removes it when
// present, in a single statement. The row lock taken by UPDATE serializes
// concurrent toggles on the same card.
func (r *cardRepository) ToggleLike(ctx context.Context, id, userID string) (*domain.Card, error) {
	cid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	const query = `
        UPDATE cards SET likes = CASE
            WHEN $2::text = ANY(likes) THEN array_remove(likes, $2::text)
            ELSE array_append(likes, $2::text)
        END
        WHERE id=$1
        RETURNING ` + cardColumns

	card, err := scanCard(r.pool.QueryRow(ctx, query, cid, userID))
	if err != nil {
		return nil, mapError("toggle like", err)
	}
	return card, nil
}

func (r *cardRepository) Delete(ctx context.Context, id string) (*domain.Card, error) {
	cid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	card, err := scanCard(r.pool.QueryRow(ctx, `DELETE FROM cards WHERE id=$1 RETURNING `+cardColumns, cid))
	if err != nil {
		return nil, mapError("delete card", err)
	}
	return card, nil
}

// Rows returned by pgx satisfy rowScanner.
var _ rowScanner = (pgx.Rows)(nil)
