package models

import "time"

// CounterpartyType distinguishes customers from vendors.
type CounterpartyType string

const (
	CounterpartyCustomer CounterpartyType = "customer"
	CounterpartyVendor   CounterpartyType = "vendor"
)

type Counterparty struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Type      CounterpartyType `json:"type"`
	Phone     string           `json:"phone,omitempty"`
	Email     string           `json:"email,omitempty"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// BankAccount is a company or vendor bank account referenced by payments.
type BankAccount struct {
	ID            int64     `json:"id"`
	OwnerType     string    `json:"owner_type"` // company or vendor
	OwnerID       *int64    `json:"owner_id,omitempty"`
	BankName      string    `json:"bank_name"`
	AccountTitle  string    `json:"account_title"`
	AccountNumber string    `json:"account_number"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
