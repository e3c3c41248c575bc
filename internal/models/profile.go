package models

import "time"

// Profile is a local study profile. Authentication is handled outside
// this application; a profile is just a namespace for cards and queues.
type Profile struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	NewCardsPerDay int        `json:"new_cards_per_day"`
	LastStudiedAt  *time.Time `json:"last_studied_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
