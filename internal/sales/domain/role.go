package domain

import "strings"

// Role is a user role as carried in access tokens.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleSalesHead      Role = "SALES_HEAD"
	RoleSalesManager   Role = "SALES_MANAGER"
	RoleSalesExecutive Role = "SALES_EXECUTIVE"
)

// IsManager reports whether any of roles may view other salespeople's
// performance. Matching is case-insensitive.
func IsManager(roles []string) bool {
	for _, r := range roles {
		switch Role(strings.ToUpper(strings.TrimSpace(r))) {
		case RoleAdmin, RoleSalesHead, RoleSalesManager:
			return true
		}
	}
	return false
}
