package models

// Role values come from the nu_users table owned by the hosted store.
// Role 1 is overloaded upstream: it marks both platform admins and
// speaker-eligible users. Call sites must go through the capability
// accessors below instead of comparing the raw value.
type Role int16

const (
	RoleRegular  Role = 0
	RoleElevated Role = 1
)

type User struct {
	ID         int64
	FirstName  string
	MiddleName *string
	LastName   string
	Ext        *string
	Email      string
	Role       Role
}

func (u User) IsAdmin() bool {
	return u.Role == RoleElevated
}

func (u User) IsSpeakerEligible() bool {
	return u.Role == RoleElevated
}

// FullName joins the first and last name, trimming when either is empty.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
