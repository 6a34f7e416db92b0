package bookings

// BookingListResponse wraps a paginated booking list
type BookingListResponse struct {
	Count    int       `json:"count"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Bookings []Booking `json:"bookings"`
}
