package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"katalian_bank/internal/domain"
)

var (
	ErrMissingField       = errors.New("required field missing")
	ErrInvalidZip         = errors.New("valid 5-digit ZIP code required")
	ErrInvalidDOB         = errors.New("invalid date of birth")
	ErrUnderage           = errors.New("applicant must be at least 18 years old")
	ErrDepositTooSmall    = errors.New("initial deposit below minimum")
	ErrInvalidLoanAmount  = errors.New("invalid loan amount")
	ErrInvalidLoanTerm    = errors.New("loan term too short")
	ErrPlatinumIneligible = errors.New("not eligible for platinum card")
)

const minLoanTermMonths = 6

type ApplicationValidator struct {
	zipRegex       *regexp.Regexp
	minimumDeposit float64
	now            func() time.Time
}

func NewApplicationValidator(minimumDeposit float64) *ApplicationValidator {
	return &ApplicationValidator{
		zipRegex:       regexp.MustCompile(`^\d{5}$`),
		minimumDeposit: minimumDeposit,
		now:            time.Now,
	}
}

// ValidateApplication checks the account-opening form against the applicant's
// user record. It owns the form-level rules; the ledger core still re-checks
// funding sufficiency when it applies the mutation.
func (v *ApplicationValidator) ValidateApplication(user *domain.User, app domain.ApplicationData, accType domain.AccountType) error {
	var errs []error

	errs = append(errs, v.identityErrors(app)...)

	if accType == domain.AccountPlatinumCard && !user.CanApplyForPlatinum {
		errs = append(errs, ErrPlatinumIneligible)
	}

	if app.DepositFromAccountID == "" {
		if !accTypeIsCredit(accType) && app.InitialDeposit < v.minimumDeposit {
			errs = append(errs, fmt.Errorf("%w: %.2f < %.2f", ErrDepositTooSmall, app.InitialDeposit, v.minimumDeposit))
		}
	} else {
		idx := user.FindAccount(app.DepositFromAccountID)
		if idx < 0 {
			errs = append(errs, fmt.Errorf("funding account %s not found", app.DepositFromAccountID))
		} else if app.InitialDeposit > user.Accounts[idx].Balance {
			errs = append(errs, fmt.Errorf("deposit %.2f exceeds funding balance %.2f", app.InitialDeposit, user.Accounts[idx].Balance))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}

// ValidateLoanApplication checks the loan form: same identity rules plus
// employment and requested-terms checks.
func (v *ApplicationValidator) ValidateLoanApplication(user *domain.User, app domain.LoanApplicationData) error {
	var errs []error

	errs = append(errs, v.identityErrors(app.ApplicationData)...)

	if strings.TrimSpace(app.Employer) == "" {
		errs = append(errs, fmt.Errorf("%w: employer", ErrMissingField))
	}
	if strings.TrimSpace(app.Purpose) == "" {
		errs = append(errs, fmt.Errorf("%w: purpose", ErrMissingField))
	}
	if app.AnnualIncome <= 0 {
		errs = append(errs, fmt.Errorf("%w: annual income", ErrMissingField))
	}
	if app.LoanAmount <= 0 {
		errs = append(errs, ErrInvalidLoanAmount)
	}
	if app.LoanTermMonths < minLoanTermMonths {
		errs = append(errs, fmt.Errorf("%w: %d months", ErrInvalidLoanTerm, app.LoanTermMonths))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}

func (v *ApplicationValidator) identityErrors(app domain.ApplicationData) []error {
	var errs []error

	if strings.TrimSpace(app.FirstName) == "" {
		errs = append(errs, fmt.Errorf("%w: first name", ErrMissingField))
	}
	if strings.TrimSpace(app.LastName) == "" {
		errs = append(errs, fmt.Errorf("%w: last name", ErrMissingField))
	}
	if strings.TrimSpace(app.Address) == "" {
		errs = append(errs, fmt.Errorf("%w: address", ErrMissingField))
	}
	if strings.TrimSpace(app.City) == "" {
		errs = append(errs, fmt.Errorf("%w: city", ErrMissingField))
	}
	if !v.zipRegex.MatchString(app.Zip) {
		errs = append(errs, ErrInvalidZip)
	}
	if err := v.checkAge(app.DOB); err != nil {
		errs = append(errs, err)
	}

	return errs
}

func (v *ApplicationValidator) checkAge(dob string) error {
	if dob == "" {
		return fmt.Errorf("%w: date of birth", ErrMissingField)
	}
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDOB, dob)
	}

	now := v.now()
	if birth.After(now) {
		return fmt.Errorf("%w: date of birth in the future", ErrInvalidDOB)
	}

	age := now.Year() - birth.Year()
	anniversary := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		age--
	}
	if age < 18 {
		return ErrUnderage
	}
	return nil
}

func accTypeIsCredit(t domain.AccountType) bool {
	return t == domain.AccountCreditCard || t == domain.AccountPlatinumCard
}
