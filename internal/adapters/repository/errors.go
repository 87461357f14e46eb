package repository

import "errors"

// Sentinel kinds for data store errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrLoadCatalog   = errors.New("load catalog failed")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrStoreClosed   = errors.New("store closed")
)
