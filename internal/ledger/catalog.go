package ledger

import (
	"fmt"

	"katalian_bank/internal/domain"
	"katalian_bank/internal/repository"
)

// MinimumOpeningDeposit applies to unfunded deposit-account applications.
const MinimumOpeningDeposit = 25.00

// LoanProduct is a catalog row. The same table backs the product-display
// endpoint and rate assignment at submission, so the advertised rate and the
// recorded rate can never diverge.
type LoanProduct struct {
	Type        domain.LoanType `json:"type"`
	Rate        float64         `json:"rate"`
	Description string          `json:"description"`
}

var loanCatalog = []LoanProduct{
	{Type: domain.LoanPersonal, Rate: 5.99, Description: "Flexible funds for life's unexpected moments."},
	{Type: domain.LoanAuto, Rate: 4.25, Description: "Get behind the wheel of your dream car faster."},
	{Type: domain.LoanMortgage, Rate: 6.45, Description: "Your journey to home ownership starts here."},
}

// LoanProducts returns the catalog in display order.
func LoanProducts() []LoanProduct {
	out := make([]LoanProduct, len(loanCatalog))
	copy(out, loanCatalog)
	return out
}

// RateFor looks up the catalog rate for a loan type.
func RateFor(t domain.LoanType) (float64, error) {
	for _, p := range loanCatalog {
		if p.Type == t {
			return p.Rate, nil
		}
	}
	return 0, fmt.Errorf("%w: loan product %s", repository.ErrNotFound, t)
}
