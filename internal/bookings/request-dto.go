package bookings

import "time"

// PassengerRequest carries traveller details for a flight booking
type PassengerRequest struct {
	FirstName      string     `json:"first_name" binding:"required"`
	LastName       string     `json:"last_name" binding:"required"`
	DateOfBirth    *time.Time `json:"date_of_birth" binding:"omitempty"`
	PassportNumber string     `json:"passport_number" binding:"omitempty"`
	Nationality    string     `json:"nationality" binding:"omitempty"`
}

// BookSeatsRequest is the seat-selection payload for POST /flights/:id/book
type BookSeatsRequest struct {
	SeatIDs    []string           `json:"seat_ids" binding:"required,min=1,max=10,dive,uuid"`
	Passengers []PassengerRequest `json:"passengers" binding:"omitempty,dive"`
}

// CancelBookingRequest carries the optional cancellation reason
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// MarkPaidRequest is the payment collaborator's handshake payload
type MarkPaidRequest struct {
	PaymentRef    string `json:"payment_ref" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,max=50"`
}

// BookingListRequest carries pagination for the user's booking list
type BookingListRequest struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}
