package models

import "time"

// AssignedDriver is the synthetic courier shown to the customer for one session.
type AssignedDriver struct {
	Name                   string  `json:"name"`
	PhotoURL               string  `json:"photo_url"`
	Rating                 float64 `json:"rating"`
	CompletedDeliveries    int     `json:"completed_deliveries"`
	VehicleDescription     string  `json:"vehicle"`
	DistanceKm             float64 `json:"distance_km"`
	CurrentLocationLabel   string  `json:"location"`
	AverageDeliveryMinutes int     `json:"avg_delivery_minutes"`
}

// Initials returns the first letter of every word of the driver's name.
func (d AssignedDriver) Initials() string {
	var out []rune
	start := true
	for _, r := range d.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return string(out)
}

type DeliveryTimeEstimate struct {
	CreatedAt     time.Time `json:"created_at"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

func (e DeliveryTimeEstimate) DepartureLabel() string { return e.DepartureTime.Format("15:04") }
func (e DeliveryTimeEstimate) ArrivalLabel() string   { return e.ArrivalTime.Format("15:04") }

// DriverPhoto is the projection of an active photo record used by the generator.
type DriverPhoto struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

type DriverPhotoRecord struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	PhotoURL  string    `json:"photo_url" bson:"photo_url"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DriverPhotoUpdate carries a partial update; nil fields are left untouched.
type DriverPhotoUpdate struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Assignment is the record published once a session completes.
type Assignment struct {
	SessionID  string               `json:"session_id"`
	RegionHint string               `json:"region"`
	Driver     AssignedDriver       `json:"driver"`
	Estimate   DeliveryTimeEstimate `json:"estimate"`
	Fallback   bool                 `json:"fallback"`
	AssignedAt time.Time            `json:"assigned_at"`
}
