package locale

import "errors"

var (
	ErrEmptyTag         = errors.New("locale: tag cannot be empty")
	ErrEmptyDomain      = errors.New("locale: domain cannot be empty")
	ErrCatalogNotFound  = errors.New("locale: catalog not found")
	ErrInvalidCatalog   = errors.New("locale: invalid catalog file")
	ErrFailedToReadFile = errors.New("locale: failed to read catalog file")
)
