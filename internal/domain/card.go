package domain

import "time"

// Image references a picture by URL.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Address is a postal address. Users leave Zip empty.
type Address struct {
	State       string `json:"state"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Zip         string `json:"zip,omitempty"`
}

// Card is a business listing owned by the user that created it.
type Card struct {
	ID          string
	Title       string
	Subtitle    string
	Description string
	Phone       string
	Email       string
	Web         string
	Image       Image
	Address     Address
	Likes       []string
	UserID      string
	CreatedAt   time.Time
}

// CardContent holds the fields a card owner may replace.
type CardContent struct {
	Title       string
	Subtitle    string
	Description string
	Phone       string
	Email       string
	Web         string
	Image       Image
	Address     Address
}

// LikedBy reports whether userID is in the likes set.
func (c *Card) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// WithContent returns a copy of the card carrying the new content. Likes,
// owner and creation time are kept.
func (c Card) WithContent(content CardContent) Card {
	c.Title = content.Title
	c.Subtitle = content.Subtitle
	c.Description = content.Description
	c.Phone = content.Phone
	c.Email = content.Email
	c.Web = content.Web
	c.Image = content.Image
	c.Address = content.Address
	c.Likes = append([]string{}, c.Likes...)
	return c
}

// ToggleLike removes userID from the likes set when present and appends it
// otherwise.
func (c *Card) ToggleLike(userID string) {
	for i, id := range c.Likes {
		if id == userID {
			c.Likes = append(c.Likes[:i:i], c.Likes[i+1:]...)
			return
		}
	}
	c.Likes = append(c.Likes, userID)
}
