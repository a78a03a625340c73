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

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	users     *service.UserService
	validator *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, validator *validation.Validator) *UsersHandler {
	return &UsersHandler{users: users, validator: validator}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.UserContext(), service.UserRegistration{
		Name:       name(req.Name),
		IsBusiness: *req.IsBusiness,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   req.Password,
		Address:    userAddress(req.Address),
		Image:      userImage(req.Image),
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, userResponse(user))
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	token, exp, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), auth.ClaimsFromContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, usersResponse(users))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, userResponse(user))
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"), service.UserProfile{
		Name:     name(req.Name),
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Address:  userAddress(req.Address),
		Image:    userImage(req.Image),
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, userResponse(user))
}

// SetBusiness handles PATCH /users/:id.
func (h *UsersHandler) SetBusiness(c *fiber.Ctx) error {
	var req dto.BusinessStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.users.SetBusiness(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"), *req.IsBusiness)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, userResponse(user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := h.users.Delete(c.UserContext(), auth.ClaimsFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, userResponse(user))
}

func name(req *dto.NameRequest) domain.Name {
	if req == nil {
		return domain.Name{}
	}
	return domain.Name{First: req.First, Middle: req.Middle, Last: req.Last}
}

func userAddress(req *dto.UserAddressRequest) domain.Address {
	if req == nil {
		return domain.Address{}
	}
	return domain.Address{
		State:       req.State,
		Country:     req.Country,
		City:        req.City,
		Street:      req.Street,
		HouseNumber: req.HouseNumber,
	}
}

func userImage(req *dto.UserImageRequest) domain.Image {
	if req == nil {
		return domain.Image{}
	}
	return domain.Image{URL: req.URL, Alt: req.Alt}
}
