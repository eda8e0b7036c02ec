package domain

// User is the unit of ledger state. Accounts and Loans are replaced wholesale
// on every mutation rather than edited in place; mutation cores receive a
// snapshot and return a new one.
type User struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	PasswordHash        string    `json:"password_hash"`
	Accounts            []Account `json:"accounts"`
	Loans               []Loan    `json:"loans"`
	CanApplyForPlatinum bool      `json:"can_apply_for_platinum"`
	Locked              bool      `json:"locked"`
	UnlockPasswordHash  string    `json:"unlock_password_hash,omitempty"`
}

// FindAccount returns the index of the account with the given ID, or -1.
func (u *User) FindAccount(id string) int {
	for i := range u.Accounts {
		if u.Accounts[i].ID == id {
			return i
		}
	}
	return -1
}
