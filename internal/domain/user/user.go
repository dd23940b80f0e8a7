package user

type User struct {
	ID    string
	Email string
	Roles []RoleCode
}

func (u *User) HasRole(role RoleCode) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleCodeAdmin)
}

// Page is one page of the admin user listing.
type Page struct {
	Items      []*User
	Page       int
	PageSize   int
	TotalPages int
}
