package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/card-directory/internal/api/dto"
	"github.com/spec-kit/card-directory/internal/auth"
	"github.com/spec-kit/card-directory/internal/domain"
	"github.com/spec-kit/card-directory/internal/service"
	"github.com/spec-kit/card-directory/internal/validation"
)

// CardsHandler exposes the card directory endpoints.
type CardsHandler struct {
	cards     *service.CardService
	validator *validation.Validator
}

// NewCardsHandler constructs handler.
func NewCardsHandler(cards *service.CardService, validator *validation.Validator) *CardsHandler {
	return &CardsHandler{cards: cards, validator: validator}
}

// List handles GET /cards.
func (h *CardsHandler) List(c *fiber.Ctx) error {
	cards, err := h.cards.List(c.UserContext(), auth.ClaimsFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, cardsResponse(cards))
}

// ListMine handles GET /cards/my-cards.
func (h *CardsHandler) ListMine(c *fiber.Ctx) error {
	cards, err := h.cards.ListMine(c.UserContext(), auth.ClaimsFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, cardsResponse(cards))
}

// Get handles GET /cards/:id.
func (h *CardsHandler) Get(c *fiber.Ctx) error {
	card, err := h.cards.Get(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, cardResponse(card))
}

// Create handles POST /cards.
func (h *CardsHandler) Create(c *fiber.Ctx) error {
	var req dto.CardRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	card, err := h.cards.Create(c.UserContext(), auth.ClaimsFromContext(c), cardContent(req))
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, cardResponse(card))
}

// Update handles PUT /cards/:id.
func (h *CardsHandler) Update(c *fiber.Ctx) error {
	var req dto.CardRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	card, err := h.cards.Update(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"), cardContent(req))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, cardResponse(card))
}

// ToggleLike handles PATCH /cards/:id.
func (h *CardsHandler) ToggleLike(c *fiber.Ctx) error {
	card, err := h.cards.ToggleLike(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, cardResponse(card))
}

// Delete handles DELETE /cards/:id.
func (h *CardsHandler) Delete(c *fiber.Ctx) error {
	card, err := h.cards.Delete(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, cardResponse(card))
}

// cardContent replaces image and address as whole values.
func cardContent(req dto.CardRequest) domain.CardContent {
	content := domain.CardContent{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		Web:         req.Web,
	}
	if req.Image != nil {
		content.Image = domain.Image{URL: req.Image.URL, Alt: req.Image.Alt}
	}
	if req.Address != nil {
		content.Address = domain.Address{
			State:       req.Address.State,
			Country:     req.Address.Country,
			City:        req.Address.City,
			Street:      req.Address.Street,
			HouseNumber: req.Address.HouseNumber,
			Zip:         req.Address.Zip,
		}
	}
	return content
}
