package payroll

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid payroll request")
	ErrPayrollNotFound   = errors.New("payroll not found")
	ErrInvalidCadence    = errors.New("invalid cadence")
	ErrInvalidAmountType = errors.New("invalid amount type")
)
