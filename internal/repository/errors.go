package repository

import "errors"

// ErrDuplicateKey marks a unique-index violation. Services translate it into
// their conflict errors without depending on gorm directly.
var ErrDuplicateKey = errors.New("duplicate key")
