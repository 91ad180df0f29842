package stock

// CreateRequest is the payload for registering a stock snapshot.
type CreateRequest struct {
	ItemID           string `json:"item_id" validate:"required,uuid4"`
	CurrentStock     int    `json:"current_stock" validate:"min=0"`
	MinimumThreshold int    `json:"minimum_threshold" validate:"min=0"`
	SupplierID       string `json:"supplier_id" validate:"required,uuid4"`
}

// UpdateRequest carries partial snapshot updates. Nil fields stay unchanged.
type UpdateRequest struct {
	CurrentStock     *int    `json:"current_stock" validate:"omitempty,min=0"`
	MinimumThreshold *int    `json:"minimum_threshold" validate:"omitempty,min=0"`
	SupplierID       *string `json:"supplier_id" validate:"omitempty,uuid4"`
}
