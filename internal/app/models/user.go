package models

// User is a person known to the institution. Teachers and students are
// users distinguished by RoleType.
type User struct {
	ID        int64    `json:"id" db:"id"`
	Email     string   `json:"email" db:"email"`
	FirstName string   `json:"firstName" db:"first_name"`
	LastName  string   `json:"lastName" db:"last_name"`
	RoleType  RoleType `json:"roleType" db:"role_type"`
	Record
}

// FullName returns "First Last"
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
