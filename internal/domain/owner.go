package domain

import "fmt"

// Owner is a person owning one or more sensors.
// email_address is unique across all owners.
type Owner struct {
	ID           string `json:"id" db:"id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	EmailAddress string `json:"email_address" db:"email_address"`
	DOB          string `json:"dob" db:"dob"`
}

// FullName is the derived display string cached under "{id}/fullname".
func (o *Owner) FullName() string {
	return fmt.Sprintf("%s %s", o.FirstName, o.LastName)
}
