package response

// StandardApiResponse is the envelope every booking-engine endpoint returns,
// success and error alike. Data carries the payload (flights, bookings,
// search results); Errors carries validation or failure details.
type StandardApiResponse struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
