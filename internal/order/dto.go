package order

// DetailInput is one product line as typed in the order form.
// swagger:model DetailInput
type DetailInput struct {
	EANCode        string `json:"ean_code"        validate:"required" example:"8001234567890"`
	ClientName     string `json:"client_name"     validate:"required" example:"Acme"`
	ProductName    string `json:"product_name"    validate:"required" example:"Widget"`
	Measurements   string `json:"measurements"    example:"50x30"`
	PackageType    string `json:"package_type"    example:"astuccio 10 cpr"`
	LotNumber      string `json:"lot_number"      example:"L2301"`
	ExpiryDate     string `json:"expiry_date"     example:"12/2025"`
	ProductionDate string `json:"production_date" example:"01/2024"`
	Quantity       int    `json:"quantity"        validate:"gte=0" example:"5"`
	FronteRetro    bool   `json:"fronte_retro"`
	Sagomata       bool   `json:"sagomata"`
}

// SaveOrderRequest creates an order when ID is empty, otherwise replaces the
// order's print type and its whole product list.
// swagger:model SaveOrderRequest
type SaveOrderRequest struct {
	ID          string        `json:"id,omitempty"`
	OrderNumber string        `json:"order_number,omitempty" example:"ORD12"`
	PrintType   PrintType     `json:"print_type" validate:"required,oneof=etichetta astuccio blister" example:"etichetta"`
	Details     []DetailInput `json:"details"    validate:"required,min=1,dive"`
}

// UpdateStatusRequest payload of status change.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=bozza inviato completato annullato" example:"completato"`
}

// NextNumberResponse carries the allocator's proposal.
// swagger:model NextNumberResponse
type NextNumberResponse struct {
	OrderNumber string `json:"order_number" example:"ORD13"`
}
