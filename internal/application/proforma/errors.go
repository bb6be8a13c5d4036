package proforma

import "errors"

var (
	ErrUnknownField      = errors.New("Unknown input field")
	ErrSourceNotFound    = errors.New("Financing source not found")
	ErrItemNotFound      = errors.New("Renovation item not found")
	ErrMaterialNotFound  = errors.New("Material not found")
	ErrInvalidSourceKind = errors.New("Financing type must be ltv or fixed")
)
