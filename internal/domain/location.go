package domain

import "fmt"

// Location is a site where sensors are installed.
type Location struct {
	ID        string  `json:"id" db:"id"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Country   string  `json:"country" db:"country"`
	City      string  `json:"city" db:"city"`
}

// DisplayString is the derived "city, country" string cached under
// "{id}/location".
func (l *Location) DisplayString() string {
	return fmt.Sprintf("%s, %s", l.City, l.Country)
}
