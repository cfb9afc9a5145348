package farmer

import "time"

// Farmer is a seller account.
type Farmer struct {
	ID           int64     `json:"id"`
	FarmName     string    `json:"farmName"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	ZipCode      string    `json:"zipCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UpdateModel carries a partial profile update; nil name fields keep their
// current value, contact fields are overwritten as supplied.
type UpdateModel struct {
	FarmName  *string `json:"farmName,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	ZipCode   string  `json:"zipCode,omitempty"`
}
