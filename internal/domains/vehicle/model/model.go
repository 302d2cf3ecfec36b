package model

import "siperkat/shared/model"

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID          = "id"
	FieldName        = "name"
	FieldPlateNumber = "plate_number"
	FieldSeats       = "seats"
	FieldImage       = "image"
	FieldActive      = "active"
)

type Vehicle struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	PlateNumber string `db:"plate_number"`
	Seats       int    `db:"seats"`
	Image       string `db:"image"`
	Active      bool   `db:"active"`
	model.Metadata
}
