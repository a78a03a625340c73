package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/card-directory/internal/api/dto"
	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/validation"
	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

// bind parses the JSON body into out and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Struct(out)
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

func imageResponse(img domain.Image) dto.ImageResponse {
	return dto.ImageResponse{URL: img.URL, Alt: img.Alt}
}

func addressResponse(addr domain.Address) dto.AddressResponse {
	return dto.AddressResponse{
		State:       addr.State,
		Country:     addr.Country,
		City:        addr.City,
		Street:      addr.Street,
		HouseNumber: addr.HouseNumber,
		Zip:         addr.Zip,
	}
}

func cardResponse(card *domain.Card) dto.CardResponse {
	likes := card.Likes
	if likes == nil {
		likes = []string{}
	}
	return dto.CardResponse{
		ID:          card.ID,
		Title:       card.Title,
		Subtitle:    card.Subtitle,
		Description: card.Description,
		Phone:       card.Phone,
		Email:       card.Email,
		Web:         card.Web,
		Image:       imageResponse(card.Image),
		Address:     addressResponse(card.Address),
		Likes:       likes,
		UserID:      card.UserID,
		CreatedAt:   card.CreatedAt,
	}
}

func cardsResponse(cards []domain.Card) []dto.CardResponse {
	out := make([]dto.CardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, cardResponse(&cards[i]))
	}
	return out
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID: user.ID,
		Name: dto.NameResponse{
			First:  user.Name.First,
			Middle: user.Name.Middle,
			Last:   user.Name.Last,
		},
		IsBusiness: user.IsBusiness,
		IsAdmin:    user.IsAdmin,
		Phone:      user.Phone,
		Email:      user.Email,
		Address:    addressResponse(user.Address),
		Image:      imageResponse(user.Image),
		CreatedAt:  user.CreatedAt,
	}
}

func usersResponse(users []domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return out
}
