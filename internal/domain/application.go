package domain

// ApplicationData is the applicant form for opening a deposit or card
// account. DOB is an ISO date string ("2006-01-02"); validation lives in
// pkg/validator, but the ledger core re-checks funding sufficiency itself.
type ApplicationData struct {
	FirstName            string  `json:"first_name"`
	MiddleName           string  `json:"middle_name,omitempty"`
	LastName             string  `json:"last_name"`
	DOB                  string  `json:"dob"`
	Address              string  `json:"address"`
	City                 string  `json:"city"`
	State                string  `json:"state"`
	Zip                  string  `json:"zip"`
	InitialDeposit       float64 `json:"initial_deposit,omitempty"`
	DepositFromAccountID string  `json:"deposit_from_account_id,omitempty"`
}

// LoanApplicationData extends the account application with employment and
// loan terms.
type LoanApplicationData struct {
	ApplicationData
	Employer       string  `json:"employer"`
	JobTitle       string  `json:"job_title"`
	AnnualIncome   float64 `json:"annual_income"`
	LoanAmount     float64 `json:"loan_amount"`
	LoanTermMonths int     `json:"loan_term_months"`
	Purpose        string  `json:"purpose"`
}
