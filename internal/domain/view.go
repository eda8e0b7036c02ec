package domain

// View is the navigation target union carried between the presentation layer
// and the API: each variant names a screen plus its payload. API responses
// return the routed path as a "next" hint after an operation completes.
type View interface {
	viewName() string
}

type LoginView struct{}
type ResetPasswordView struct{}
type DashboardView struct{}
type TransferView struct{}
type DepositView struct{}
type LoansView struct{}
type ContactView struct{}

type SecurityView struct {
	Action SecurityAction
}

type ApplyView struct {
	AccountType AccountType
}

type ApplyLoanView struct {
	LoanType LoanType
}

type SecurityAction string

const (
	SecurityReport   SecurityAction = "report"
	SecurityLockdown SecurityAction = "lockdown"
)

func (LoginView) viewName() string         { return "login" }
func (ResetPasswordView) viewName() string { return "resetPassword" }
func (DashboardView) viewName() string     { return "dashboard" }
func (TransferView) viewName() string      { return "transfer" }
func (DepositView) viewName() string       { return "deposit" }
func (LoansView) viewName() string         { return "loans" }
func (ContactView) viewName() string       { return "contact" }
func (SecurityView) viewName() string      { return "security" }
func (ApplyView) viewName() string         { return "apply" }
func (ApplyLoanView) viewName() string     { return "applyLoan" }

// Route maps a view to its navigation path. All dispatch goes through this
// single function so path construction stays in one place.
func Route(v View) string {
	switch view := v.(type) {
	case LoginView:
		return "/login"
	case ResetPasswordView:
		return "/reset-password"
	case DashboardView:
		return "/dashboard"
	case TransferView:
		return "/transfer"
	case DepositView:
		return "/deposit"
	case LoansView:
		return "/loans"
	case ContactView:
		return "/contact"
	case SecurityView:
		return "/security/" + string(view.Action)
	case ApplyView:
		return "/apply/" + string(view.AccountType)
	case ApplyLoanView:
		return "/apply-loan/" + string(view.LoanType)
	default:
		return "/login"
	}
}
