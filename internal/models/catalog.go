package models

import "time"

// Mission is a billable engagement entries can be booked against.
type Mission struct {
	ID                   string    `db:"id" json:"id"`
	Name                 string    `db:"nom" json:"nom"`
	ClientName           *string   `db:"client_nom" json:"client_nom,omitempty"`
	Active               bool      `db:"active" json:"active"`
	AllowTasklessBilling bool      `db:"allow_taskless_billing" json:"allow_taskless_billing"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`

	Tasks []Task `json:"tasks,omitempty"`
}

// Task is one line of a mission's configured task catalog.
type Task struct {
	ID          string  `db:"id" json:"id"`
	MissionID   string  `db:"mission_id" json:"mission_id"`
	Label       string  `db:"libelle" json:"libelle"`
	Description *string `db:"description" json:"description,omitempty"`
	Active      bool    `db:"active" json:"active"`
}

// InternalActivity is a non-billable activity (training, admin, leave...).
type InternalActivity struct {
	ID          string    `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
