package commands

import (
	"parkshare/internal/pkg/errs"
)

// The closed error taxonomy the handler layer maps to transport codes.
// Repository and driver errors never escape unmarked.
var (
	ErrUnauthenticated = errs.New("unauthenticated")
	ErrTenantMissing   = errs.New("principal has no community")
	// ErrNotFound covers both "does not exist" and "exists in another
	// community"; the two are deliberately indistinguishable.
	ErrNotFound                = errs.New("not found")
	ErrForbidden               = errs.New("forbidden")
	ErrConflict                = errs.New("conflict")
	ErrSlotConflict            = errs.New("slot already booked for this interval")
	ErrInvalidInterval         = errs.New("invalid interval")
	ErrPolicyViolation         = errs.New("booking policy violation")
	ErrInvalidTransition       = errs.New("invalid status transition")
	ErrEmailTaken              = errs.New("email already registered")
	ErrInvalidCredentials      = errs.New("invalid credentials")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)
