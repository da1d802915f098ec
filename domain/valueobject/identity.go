package valueobject

// Identity is the principal embedded in every session token.
type Identity struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID int64  `json:"empid"`
}

// NewIdentity builds the identity carried inside tokens.
func NewIdentity(username, role string, employeeID int64) Identity {
	return Identity{
		Username:   username,
		Role:       role,
		EmployeeID: employeeID,
	}
}

// HasRole is an exact match.
func (i Identity) HasRole(role string) bool {
	return i.Role == role
}
