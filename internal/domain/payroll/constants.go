package payroll

import (
	"fmt"
	"strings"
)

type Cadence string

const (
	CadenceMonthly     Cadence = "monthly"
	CadenceSemiMonthly Cadence = "semi-monthly"
)

func ParseCadence(value string) (Cadence, error) {
	switch Cadence(strings.ToLower(strings.TrimSpace(value))) {
	case CadenceMonthly:
		return CadenceMonthly, nil
	case CadenceSemiMonthly:
		return CadenceSemiMonthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCadence, value)
}

type AmountType string

const (
	AmountFixed   AmountType = "fixed"
	AmountPercent AmountType = "percent"
)

func ParseAmountType(value string) (AmountType, error) {
	switch AmountType(strings.ToLower(strings.TrimSpace(value))) {
	case AmountFixed:
		return AmountFixed, nil
	case AmountPercent:
		return AmountPercent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAmountType, value)
}

const (
	PercentOfBasicSalary = "basic_salary"

	SkipEmployeeException  = "employee_exception"
	SkipAllowanceException = "allowance_exception"
	SkipNonPositive        = "non_positive"

	lockKeyPrefix = "payroll-allowances:"
)
