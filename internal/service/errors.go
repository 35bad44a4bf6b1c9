package service

import "errors"

var (
	ErrInvalidQuantity     = errors.New("quantity must not be negative")
	ErrProductNotInCatalog = errors.New("product not present in loaded catalog")
	ErrSessionNotActive    = errors.New("no active session for profile")
	ErrUnsupportedRole     = errors.New("unsupported profile role")
)
