package models

import "time"

type Location struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Building    *string   `json:"building,omitempty" db:"building"`
	Floor       *string   `json:"floor,omitempty" db:"floor"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateLocationRequest struct {
	Name        string  `json:"name"`
	Building    *string `json:"building"`
	Floor       *string `json:"floor"`
	Description *string `json:"description"`
}
