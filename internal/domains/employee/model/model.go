package model

import "siperkat/shared/model"

const (
	TableName  = "employee_whitelist"
	EntityName = "employee"

	FieldID     = "id"
	FieldName   = "name"
	FieldNIP    = "nip"
	FieldEmail  = "email"
	FieldUnit   = "unit"
	FieldRole   = "role"
	FieldActive = "active"
)

// Employee is a whitelist row. Only people listed here, by email and
// NIP, may register an account; Role is the level their account gets.
type Employee struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	NIP    string `db:"nip"`
	Email  string `db:"email"`
	Unit   string `db:"unit"`
	Role   string `db:"role"`
	Active bool   `db:"active"`
	model.Metadata
}
