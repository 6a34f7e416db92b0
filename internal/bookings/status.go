package bookings

// Status is the booking lifecycle state. Transitions:
// pending → confirmed → {cancelled, completed}, plus pending → cancelled.
// cancelled and completed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal checks whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo checks the state machine guard for a proposed transition
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	}
	return false
}

// PaymentStatus tracks the out-of-band payment handshake
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (p PaymentStatus) String() string {
	return string(p)
}
