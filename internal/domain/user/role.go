package user

import (
	"errors"
	"strings"
)

// RoleCode mirrors the role names the catalog API issues.
type RoleCode string

const (
	RoleCodeAdmin  RoleCode = "Admin"
	RoleCodeWriter RoleCode = "Writer"
	RoleCodeUser   RoleCode = "User"
)

var ErrInvalidRoleCode = errors.New("invalid role code")

func (c RoleCode) IsValid() bool {
	switch c {
	case RoleCodeAdmin, RoleCodeWriter, RoleCodeUser:
		return true
	default:
		return false
	}
}

// ParseRoleCode accepts any casing ("admin", "ADMIN") and returns the canonical code.
func ParseRoleCode(s string) (RoleCode, error) {
	s = strings.TrimSpace(s)
	for _, c := range []RoleCode{RoleCodeAdmin, RoleCodeWriter, RoleCodeUser} {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidRoleCode
}

// ParseRoles keeps the roles it recognises and drops the rest.
func ParseRoles(raw []string) []RoleCode {
	roles := make([]RoleCode, 0, len(raw))
	for _, r := range raw {
		if c, err := ParseRoleCode(r); err == nil {
			roles = append(roles, c)
		}
	}
	return roles
}
