// Package models holds the data shapes shared by the server layers.
package models

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/common"
)

// CredentialRecord is the value stored under a username key.
//
// Password holds the composed "<hashHex>+<salt>" field; it must never be
// sent back to a client. Only Token changes after registration.
type CredentialRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// UserView is the public projection of a CredentialRecord.
type UserView struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// View returns the client-facing projection of r.
func (r *CredentialRecord) View() *UserView {
	return &UserView{Username: r.Username, Token: r.Token}
}

// EncodeRecord serializes r into the string stored in the key-value store.
func EncodeRecord(r *CredentialRecord) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSerialization, err)
	}
	return string(b), nil
}

// DecodeRecord parses a stored value back into a CredentialRecord.
func DecodeRecord(s string) (*CredentialRecord, error) {
	r := &CredentialRecord{}
	if err := json.Unmarshal([]byte(s), r); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSerialization, err)
	}
	return r, nil
}
