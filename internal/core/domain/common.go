package domain

import "time"

// Timestamps holds the creation and last-update times shared by ledger entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
