package dto

import (
	"mime/multipart"

	"github.com/google/uuid"

	"siperkat/internal/domains/vehicle/model"
	"siperkat/shared"
	gDto "siperkat/shared/dto"
	gModel "siperkat/shared/model"
	"siperkat/shared/timezone"
)

type CreateVehicleRequest struct {
	Name        string                `json:"name"         validate:"required,max=100"`
	PlateNumber string                `json:"plate_number" validate:"required,max=20"`
	Seats       int                   `json:"seats"        validate:"omitempty,min=0"`
	Image       *multipart.FileHeader `json:"image"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
	Active      *bool                 `json:"active"       validate:"omitempty"`
}

func (c *CreateVehicleRequest) ToModel(user string, imageURL string) model.Vehicle {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Vehicle{
		ID:          uuid.NewString(),
		Name:        c.Name,
		PlateNumber: c.PlateNumber,
		Seats:       c.Seats,
		Image:       imageURL,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVehicleRequest struct {
	Name        string                `db:"name"         json:"name"         validate:"omitempty,max=100"`
	PlateNumber string                `db:"plate_number" json:"plate_number" validate:"omitempty,max=20"`
	Seats       *int                  `db:"seats"        json:"seats"        validate:"omitempty,min=0"`
	Image       *multipart.FileHeader `json:"image"      validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
	Active      *bool                 `db:"active"       json:"active"       validate:"omitempty"`
}

type VehicleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	Seats       int    `json:"seats"`
	Image       string `json:"image"`
	Active      bool   `json:"active"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.Name = model.Name
	r.PlateNumber = model.PlateNumber
	r.Seats = model.Seats
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}
