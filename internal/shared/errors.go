package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrNotFound      = fmt.Errorf("resource not found")
	ErrUnprocessable = fmt.Errorf("unprocessable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingField    = fmt.Errorf("missing required field")
	ErrInvalidDate     = fmt.Errorf("invalid date")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
