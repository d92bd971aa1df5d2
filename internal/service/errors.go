package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidActivation  = errors.New("invalid or expired activation token")
	ErrAddressTypeExists  = errors.New("address type already exists")
	ErrNotOwner           = errors.New("resource belongs to another account")
	ErrNoWithdrawMethod   = errors.New("no withdraw method configured")
	ErrAlreadyPaid        = errors.New("order is already paid")
)
