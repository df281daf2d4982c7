package vehicle

import "time"

type Vehicle struct {
	ID          string    `json:"id"`
	PlateNumber string    `json:"plate_number"`
	VehicleType string    `json:"vehicle_type"`
	Capacity    int       `json:"capacity"`
	Model       string    `json:"model"`
	GPSDeviceID string    `json:"gps_device_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
