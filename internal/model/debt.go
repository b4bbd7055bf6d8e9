package model

// Debt status values accepted by the backend.
const (
	StatusOpen      = "open"
	StatusSettled   = "settled"
	StatusCancelled = "cancelled"
)

// Debt is the record the backend returns for a tracked obligation.
// The client only displays it.
type Debt struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   *string `json:"created_at,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

// Desc returns the description or "" when the backend sent none.
func (d Debt) Desc() string {
	if d.Description == nil {
		return ""
	}
	return *d.Description
}

// Settled reports whether the debt is no longer open.
func (d Debt) Settled() bool { return d.Status == StatusSettled }

type DebtList struct {
	Items []Debt `json:"items"`
}

// CreateDebt is the body of POST /debts.
type CreateDebt struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateDebt is the body of PUT /debts/{id}. Nil fields are left untouched.
type UpdateDebt struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ValidStatus reports whether s is one of the statuses the backend accepts.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusSettled, StatusCancelled:
		return true
	}
	return false
}
