package db

import "errors"

// Common database errors shared by every dialect / Erreurs communes à tous les dialectes
var (
	ErrNoRecord            = errors.New("no matching record found")
	ErrDuplicate           = errors.New("record already exists")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrCheckViolation      = errors.New("check constraint violation")
	ErrBusy                = errors.New("database is busy")
	ErrUnsupported         = errors.New("operation not supported by database")
)
