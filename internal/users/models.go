package users

// Role is the identity role injected by the external session service. The
// engine trusts the verified token claims and never handles credentials.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	// RolePayment identifies the external payment collaborator calling the
	// payment-status handshake.
	RolePayment Role = "PAYMENT"
)

func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RolePayment:
		return true
	}
	return false
}
