package model

import "time"

// ServiceProvider is a contractor or company that performs maintenance.
type ServiceProvider struct {
	ID        int64     `json:"id" db:"id"`
	HomeID    int64     `json:"home_id" db:"home_id" validate:"gt=0"`
	Company   string    `json:"company" db:"company" validate:"notblank"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	Specialty *string   `json:"specialty,omitempty" db:"specialty"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
