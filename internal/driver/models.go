package driver

import "time"

const (
	StatusAvailable = "available"
	StatusOnTrip    = "on_trip"
	StatusOffDuty   = "off_duty"
)

type Driver struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	LicenseNumber   string    `json:"license_number"`
	LicenseExpiry   time.Time `json:"license_expiry"`
	ExperienceYears int       `json:"experience_years"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
