package model

import "time"

// Home is the top-level record; every category, location, asset and
// service provider belongs to exactly one home.
type Home struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name" validate:"notblank"`
	Address       string     `json:"address" db:"address"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	SquareFootage *int64     `json:"square_footage,omitempty" db:"square_footage" validate:"omitempty,gt=0"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Category groups assets by kind (HVAC, plumbing, appliances, ...).
type Category struct {
	ID        int64     `json:"id" db:"id"`
	HomeID    int64     `json:"home_id" db:"home_id" validate:"gt=0"`
	Name      string    `json:"name" db:"name" validate:"notblank"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Location is a room or area of a home. Floor is optional; 0 is the
// ground floor and negative values are below grade.
type Location struct {
	ID        int64     `json:"id" db:"id"`
	HomeID    int64     `json:"home_id" db:"home_id" validate:"gt=0"`
	Name      string    `json:"name" db:"name" validate:"notblank"`
	Floor     *int64    `json:"floor,omitempty" db:"floor"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
