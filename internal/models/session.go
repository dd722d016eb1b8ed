package models

// Identity is the resolved caller identity for one request. Every server-side
// operation receives an already-resolved Identity; nothing reads ambient
// session state.
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	TokenID   string `json:"-"` // jti, used for revocation
	ExpiresAt int64  `json:"expiresAt"`
	IssuedAt  int64  `json:"issuedAt"`
}

// IsMentor reports whether the identity carries the mentor role
func (i *Identity) IsMentor() bool {
	return i.Role == RoleMentor
}

// IsMentee reports whether the identity carries the mentee role
func (i *Identity) IsMentee() bool {
	return i.Role == RoleMentee
}
