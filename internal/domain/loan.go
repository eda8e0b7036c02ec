package domain

type LoanType string

const (
	LoanPersonal LoanType = "Personal"
	LoanAuto     LoanType = "Auto"
	LoanMortgage LoanType = "Mortgage"
)

type LoanStatus string

const (
	LoanPending  LoanStatus = "Pending"
	LoanApproved LoanStatus = "Approved"
	LoanActive   LoanStatus = "Active"
)

// Loan is a separate ledger from deposit accounts; creating one never touches
// account balances. The interest rate is assigned from the product catalog at
// creation time, never supplied by the applicant.
type Loan struct {
	ID           string     `json:"id"`
	Type         LoanType   `json:"type"`
	Amount       float64    `json:"amount"`
	InterestRate float64    `json:"interest_rate"`
	Status       LoanStatus `json:"status"`
	TermMonths   int        `json:"term_months"`
}

func ValidLoanType(t LoanType) bool {
	switch t {
	case LoanPersonal, LoanAuto, LoanMortgage:
		return true
	}
	return false
}
