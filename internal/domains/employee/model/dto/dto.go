package dto

import (
	"github.com/google/uuid"

	"siperkat/internal/domains/employee/model"
	"siperkat/shared"
	"siperkat/shared/constant"
	gDto "siperkat/shared/dto"
	gModel "siperkat/shared/model"
	"siperkat/shared/timezone"
)

type CreateEmployeeRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	NIP    string `json:"nip"    validate:"required,nip"`
	Email  string `json:"email"  validate:"required,email,max=100"`
	Unit   string `json:"unit"   validate:"omitempty,max=100"`
	Role   string `json:"role"   validate:"omitempty,oneof=admin user"`
	Active *bool  `json:"active" validate:"omitempty"`
}

func (c *CreateEmployeeRequest) ToModel(user string) model.Employee {
	role := c.Role
	if role == constant.Empty {
		role = constant.RoleUser
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Employee{
		ID:     uuid.NewString(),
		Name:   c.Name,
		NIP:    c.NIP,
		Email:  c.Email,
		Unit:   c.Unit,
		Role:   role,
		Active: active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateEmployeeRequest struct {
	Name   string `db:"name"   json:"name"   validate:"omitempty,max=100"`
	Unit   string `db:"unit"   json:"unit"   validate:"omitempty,max=100"`
	Role   string `db:"role"   json:"role"   validate:"omitempty,oneof=admin user"`
	Active *bool  `db:"active" json:"active" validate:"omitempty"`
}

type EmployeeResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NIP    string `json:"nip"`
	Email  string `json:"email"`
	Unit   string `json:"unit"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
	gDto.Metadata
}

func (r *EmployeeResponse) FromModel(model model.Employee) {
	r.ID = model.ID
	r.Name = model.Name
	r.NIP = model.NIP
	r.Email = model.Email
	r.Unit = model.Unit
	r.Role = model.Role
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetEmployeesResponse) FromModels(models []model.Employee, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Employees = make([]EmployeeResponse, len(models))
	for i, mod := range models {
		r.Employees[i].FromModel(mod)
	}
}
