package items

// CreateRequest is the payload for adding a catalog item.
type CreateRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Description     *string `json:"description"`
	MeasurementUnit *string `json:"measurement_unit" validate:"omitempty,max=32"`
	Price           string  `json:"price" validate:"required"`
}

// UpdateRequest carries partial item updates. Nil fields stay unchanged.
type UpdateRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=255"`
	Description     *string `json:"description"`
	MeasurementUnit *string `json:"measurement_unit" validate:"omitempty,max=32"`
	Price           *string `json:"price"`
}
