package dto

import "time"

// NameRequest is a user's full name.
type NameRequest struct {
	First  string `json:"first" validate:"required,min=2,max=256"`
	Middle string `json:"middle" validate:"omitempty,min=2,max=256"`
	Last   string `json:"last" validate:"required,min=2,max=256"`
}

// UserAddressRequest is a user's postal address.
type UserAddressRequest struct {
	State       string `json:"state" validate:"omitempty,min=2,max=256"`
	Country     string `json:"country" validate:"required,min=2,max=256"`
	City        string `json:"city" validate:"required,min=2,max=256"`
	Street      string `json:"street" validate:"required,min=2,max=256"`
	HouseNumber string `json:"houseNumber" validate:"required,min=1,max=256"`
}

// UserImageRequest is a profile picture.
type UserImageRequest struct {
	URL string `json:"url" validate:"omitempty,min=11,max=1024"`
	Alt string `json:"alt" validate:"omitempty,min=2,max=256"`
}

// UserRegisterRequest payload for new users. An isAdmin field sent by the
// client is ignored.
type UserRegisterRequest struct {
	Name       *NameRequest        `json:"name" validate:"required"`
	IsBusiness *bool               `json:"isBusiness" validate:"required"`
	Phone      string              `json:"phone" validate:"required,min=9,max=14,localphone"`
	Email      string              `json:"email" validate:"required,email"`
	Password   string              `json:"password" validate:"required,min=6,max=1024,strongpassword"`
	Address    *UserAddressRequest `json:"address" validate:"required"`
	Image      *UserImageRequest   `json:"image" validate:"omitempty"`
}

// UserUpdateRequest payload for PUT /users/:id. An empty password keeps the
// current one.
type UserUpdateRequest struct {
	Name     *NameRequest        `json:"name" validate:"required"`
	Phone    string              `json:"phone" validate:"required,min=9,max=14,localphone"`
	Email    string              `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"omitempty,min=6,max=1024,strongpassword"`
	Address  *UserAddressRequest `json:"address" validate:"required"`
	Image    *UserImageRequest   `json:"image" validate:"omitempty"`
}

// BusinessStatusRequest payload for PATCH /users/:id.
type BusinessStatusRequest struct {
	IsBusiness *bool `json:"isBusiness" validate:"required"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NameResponse is a user's full name.
type NameResponse struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

// UserResponse is the public representation of a user. It never carries the
// password hash.
type UserResponse struct {
	ID         string          `json:"id"`
	Name       NameResponse    `json:"name"`
	IsBusiness bool            `json:"isBusiness"`
	IsAdmin    bool            `json:"isAdmin"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Address    AddressResponse `json:"address"`
	Image      ImageResponse   `json:"image"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
