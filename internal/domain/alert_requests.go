package domain

type CreateAlertRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Type        AlertType `json:"type" validate:"required,oneof=info warning error accident traffic_jam road_closed police_control obstacle_on_road"`
	Lat         float64   `json:"lat" validate:"lat"`
	Lng         float64   `json:"lng" validate:"lng"`
	Accuracy    int       `json:"accuracy" validate:"min=0"`
	Address     string    `json:"address,omitempty"`
	Place       string    `json:"place,omitempty"`
	Region      string    `json:"region,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// UpdateAlertRequest carries a partial update: only non-nil fields are merged
// into the stored alert.
type UpdateAlertRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Type        *AlertType `json:"type" validate:"omitempty,oneof=info warning error accident traffic_jam road_closed police_control obstacle_on_road"`
	Lat         *float64   `json:"lat" validate:"omitempty,lat"`
	Lng         *float64   `json:"lng" validate:"omitempty,lng"`
	Accuracy    *int       `json:"accuracy" validate:"omitempty,min=0"`
	Address     *string    `json:"address"`
	Place       *string    `json:"place"`
	Region      *string    `json:"region"`
	Country     *string    `json:"country"`
}

type NearbyRequest struct {
	Lat float64 `json:"latitude" validate:"lat"`
	Lng float64 `json:"longitude" validate:"lng"`
}
