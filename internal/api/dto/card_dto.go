package dto

import "time"

// CardImageRequest describes a card picture. Both fields may be empty.
type CardImageRequest struct {
	URL string `json:"url" validate:"omitempty,url,min=11,max=1024"`
	Alt string `json:"alt" validate:"omitempty,min=2,max=256"`
}

// CardAddressRequest is the postal address of a business.
type CardAddressRequest struct {
	State       string `json:"state" validate:"omitempty,min=2,max=256"`
	Country     string `json:"country" validate:"required,min=2,max=256"`
	City        string `json:"city" validate:"required,min=2,max=256"`
	Street      string `json:"street" validate:"required,min=2,max=256"`
	HouseNumber string `json:"houseNumber" validate:"required,min=1,max=256"`
	Zip         string `json:"zip" validate:"required,min=2,max=256"`
}

// CardRequest is the payload for POST /cards and PUT /cards/:id. Likes,
// owner and creation time are never taken from the client.
type CardRequest struct {
	Title       string              `json:"title" validate:"required,min=2,max=256"`
	Subtitle    string              `json:"subtitle" validate:"required,min=2,max=256"`
	Description string              `json:"description" validate:"required,min=2,max=1024"`
	Phone       string              `json:"phone" validate:"required,min=9,max=14,localphone"`
	Email       string              `json:"email" validate:"required,email"`
	Web         string              `json:"web" validate:"omitempty,url,min=14,max=256"`
	Image       *CardImageRequest   `json:"image" validate:"omitempty"`
	Address     *CardAddressRequest `json:"address" validate:"required"`
}

// ImageResponse describes a picture.
type ImageResponse struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// AddressResponse is a postal address.
type AddressResponse struct {
	State       string `json:"state"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Zip         string `json:"zip,omitempty"`
}

// CardResponse is the public representation of a card.
type CardResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Description string          `json:"description"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Web         string          `json:"web"`
	Image       ImageResponse   `json:"image"`
	Address     AddressResponse `json:"address"`
	Likes       []string        `json:"likes"`
	UserID      string          `json:"user_id"`
	CreatedAt   time.Time       `json:"createdAt"`
}
