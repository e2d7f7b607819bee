package services

import (
	"errors"
	"strings"

	"hotel-frontdesk/models"

	"golang.org/x/crypto/bcrypt"
)

// CodeAuthorizer is the two-entry code table that gates destructive front-desk actions.
// Only bcrypt hashes are held in memory.
type CodeAuthorizer struct {
	entries []codeEntry
}

type codeEntry struct {
	role models.Role
	hash []byte
}

// NewCodeAuthorizer takes bcrypt hashes of the administrator and staff codes.
func NewCodeAuthorizer(adminHash, staffHash string) (*CodeAuthorizer, error) {
	adminHash = strings.TrimSpace(adminHash)
	staffHash = strings.TrimSpace(staffHash)
	if adminHash == "" || staffHash == "" {
		return nil, errors.New("both administrator and staff codes must be configured")
	}
	for _, h := range []string{adminHash, staffHash} {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, err
		}
	}
	return &CodeAuthorizer{entries: []codeEntry{
		{role: models.RoleAdministrator, hash: []byte(adminHash)},
		{role: models.RoleStaff, hash: []byte(staffHash)},
	}}, nil
}

// NewCodeAuthorizerFromCodes hashes plain codes once at startup.
func NewCodeAuthorizerFromCodes(adminCode, staffCode string, cost int) (*CodeAuthorizer, error) {
	adminCode = strings.TrimSpace(adminCode)
	staffCode = strings.TrimSpace(staffCode)
	if adminCode == "" || staffCode == "" {
		return nil, errors.New("both administrator and staff codes must be configured")
	}
	if adminCode == staffCode {
		return nil, errors.New("administrator and staff codes must differ")
	}
	adminHash, err := HashCode(adminCode, cost)
	if err != nil {
		return nil, err
	}
	staffHash, err := HashCode(staffCode, cost)
	if err != nil {
		return nil, err
	}
	return NewCodeAuthorizer(adminHash, staffHash)
}

func HashCode(code string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// RoleForCode checks the administrator entry first.
func (a *CodeAuthorizer) RoleForCode(code string) (models.Role, bool) {
	for _, e := range a.entries {
		if bcrypt.CompareHashAndPassword(e.hash, []byte(code)) == nil {
			return e.role, true
		}
	}
	return "", false
}
