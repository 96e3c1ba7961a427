package model

// SessionUser is the authenticated wallet identity.
type SessionUser struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}
