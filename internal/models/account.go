package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// User is a customer account. Accounts are only materialized through the
// activation flow, never directly from a raw signup request.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	PhoneNumber  string
	Role         Role
	AvatarKey    string
	Addresses    []Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Address struct {
	ID          string `json:"id"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	ZipCode     string `json:"zipCode"`
	AddressType string `json:"addressType"`
}

// Shop is a seller account carrying its withdraw configuration, available
// balance and an append-only transaction ledger.
type Shop struct {
	ID               string
	Name             string
	OwnerName        string
	Email            string
	PasswordHash     []byte
	Description      string
	Address          string
	PhoneNumber      string
	ZipCode          string
	Role             Role
	AvatarKey        string
	WithdrawMethod   *WithdrawMethod
	AvailableBalance float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type WithdrawMethod struct {
	BankName          string `json:"bankName"`
	BankCountry       string `json:"bankCountry"`
	BankAccountNumber string `json:"bankAccountNumber"`
	BankHolderName    string `json:"bankHolderName"`
}

type TransactionStatus string

const (
	TransactionProcessing TransactionStatus = "processing"
	TransactionSucceeded  TransactionStatus = "succeeded"
)

// Transaction is a ledger entry for a shop withdrawal. Entries are only ever
// appended or advanced in status, never removed.
type Transaction struct {
	ID        string
	ShopID    string
	Amount    float64
	Status    TransactionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingUser is the payload embedded in a customer activation token. The
// password is carried already hashed so the plaintext never leaves the
// registration handler.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarKey    string `json:"avatar"`
	PasswordHash string `json:"password"`
}

// PendingShop is the payload embedded in a shop activation token.
type PendingShop struct {
	Name         string `json:"name"`
	OwnerName    string `json:"ownerName"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	ZipCode      string `json:"zipCode"`
}
