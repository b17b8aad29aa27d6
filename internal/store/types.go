package store

import "time"

// Address is the nested view of a contact's flat street/city fields
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Contact represents a phonebook contact node. CreatedAt orders listings
// and is not part of the API surface.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"-"`
}

// Account represents a registered account node
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Friends   []Contact `json:"friends"`
	CreatedAt time.Time `json:"-"`
}

// PhoneFilter narrows contact listings by phone presence
type PhoneFilter string

const (
	// PhoneFilterAll returns every contact
	PhoneFilterAll PhoneFilter = ""
	// PhoneFilterYes returns contacts with a phone number
	PhoneFilterYes PhoneFilter = "YES"
	// PhoneFilterNo returns contacts without a phone number
	PhoneFilterNo PhoneFilter = "NO"
)
