package order

import "time"

type PrintType string

const (
	PrintEtichetta PrintType = "etichetta"
	PrintAstuccio  PrintType = "astuccio"
	PrintBlister   PrintType = "blister"
)

func (p PrintType) Valid() bool {
	switch p {
	case PrintEtichetta, PrintAstuccio, PrintBlister:
		return true
	}
	return false
}

type Status string

const (
	StatusBozza      Status = "bozza"
	StatusInviato    Status = "inviato"
	StatusCompletato Status = "completato"
	StatusAnnullato  Status = "annullato"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBozza, StatusInviato, StatusCompletato, StatusAnnullato:
		return true
	}
	return false
}

type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	PrintType   PrintType `json:"print_type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Details     []Detail  `json:"order_details"`
}

// Detail is one product line. Dates are ISO "YYYY-MM-DD" with day 01, nil when absent.
type Detail struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	EANCode        string    `json:"ean_code"`
	ClientName     string    `json:"client_name"`
	ProductName    string    `json:"product_name"`
	Measurements   *string   `json:"measurements,omitempty"`
	PackageType    *string   `json:"package_type,omitempty"`
	LotNumber      *string   `json:"lot_number,omitempty"`
	ExpiryDate     *string   `json:"expiry_date,omitempty"`
	ProductionDate *string   `json:"production_date,omitempty"`
	Quantity       int       `json:"quantity"`
	FronteRetro    bool      `json:"fronte_retro"`
	Sagomata       bool      `json:"sagomata"`
	CreatedAt      time.Time `json:"created_at"`
}
