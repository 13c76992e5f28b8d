package typography

import "time"

// Typography is a print shop that receives dispatched orders.
type Typography struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListResponse wraps the typography list.
// swagger:model
type ListResponse struct {
	Items []Typography `json:"items"`
}

// SaveRequest payload of creation and full update.
// swagger:model TypographySaveRequest
type SaveRequest struct {
	Name          string `json:"name"           validate:"required"       example:"Tipografia Rossi"`
	ContactPerson string `json:"contact_person"                           example:"Mario Rossi"`
	Email         string `json:"email"          validate:"required,email" example:"ordini@tiporossi.it"`
}
