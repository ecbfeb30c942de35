package account

import "errors"

var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrNotACustomer      = errors.New("principal is not a customer")
	ErrInvalidLocation   = errors.New("invalid location")
)
