package school

import "time"

// School is a buyer account.
type School struct {
	ID           int64     `json:"id"`
	SchoolName   string    `json:"schoolName"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	ZipCode      string    `json:"zipCode,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UpdateModel carries a partial profile update; nil name fields keep their
// current value, contact fields are overwritten as supplied.
type UpdateModel struct {
	SchoolName  *string `json:"schoolName,omitempty"`
	ContactName *string `json:"contactName,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zipCode,omitempty"`
}
