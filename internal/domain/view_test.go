package domain

import "testing"

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		view View
		want string
	}{
		{"login", LoginView{}, "/login"},
		{"reset password", ResetPasswordView{}, "/reset-password"},
		{"dashboard", DashboardView{}, "/dashboard"},
		{"transfer", TransferView{}, "/transfer"},
		{"deposit", DepositView{}, "/deposit"},
		{"loans", LoansView{}, "/loans"},
		{"contact", ContactView{}, "/contact"},
		{"security lockdown", SecurityView{Action: SecurityLockdown}, "/security/lockdown"},
		{"security report", SecurityView{Action: SecurityReport}, "/security/report"},
		{"apply savings", ApplyView{AccountType: AccountSavings}, "/apply/Savings"},
		{"apply platinum card", ApplyView{AccountType: AccountPlatinumCard}, "/apply/Platinum Credit Card"},
		{"apply auto loan", ApplyLoanView{LoanType: LoanAuto}, "/apply-loan/Auto"},
		{"nil view falls back to login", nil, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.view); got != tt.want {
				t.Errorf("Route(%T) = %q, want %q", tt.view, got, tt.want)
			}
		})
	}
}
