package domain

import (
	"time"
)

type AlertType string

const (
	AlertInfo           AlertType = "info"
	AlertWarning        AlertType = "warning"
	AlertError          AlertType = "error"
	AlertAccident       AlertType = "accident"
	AlertTrafficJam     AlertType = "traffic_jam"
	AlertRoadClosed     AlertType = "road_closed"
	AlertPoliceControl  AlertType = "police_control"
	AlertObstacleOnRoad AlertType = "obstacle_on_road"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertInfo, AlertWarning, AlertError, AlertAccident,
		AlertTrafficJam, AlertRoadClosed, AlertPoliceControl, AlertObstacleOnRoad:
		return true
	}
	return false
}

// Alert is a reported road event. Coordinates are always present;
// the location context fields (address, place, region, country) are optional.
type Alert struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        AlertType `json:"type"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Accuracy    int       `json:"accuracy"`
	Address     string    `json:"address,omitempty"`
	Place       string    `json:"place,omitempty"`
	Region      string    `json:"region,omitempty"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
