package wallet

// Role is a claim supplied by the identity collaborator. The ledger trusts
// role claims for authorization; it never derives them itself.
type Role string

const (
	// RoleAdmin may manage account lifecycle and issue redeem codes.
	RoleAdmin Role = "admin"
	// RoleFinance may process cash payouts and sweep collected fees.
	RoleFinance Role = "finance"
	// RoleMember is an ordinary account holder.
	RoleMember Role = "member"
)

// Actor identifies who is invoking an operation: the account they act from
// and the roles their session carries. It is passed explicitly into every
// privileged operation rather than read from ambient state.
type Actor struct {
	AccountNumber string
	Roles         []Role
}

// HasRole reports whether the actor carries the given role claim.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
