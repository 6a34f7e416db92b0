package flights

import (
	"github.com/google/uuid"

	"aerobook/internal/shared/apperrors"
)

// ClassAvailability summarizes free seats for one cabin class
type ClassAvailability struct {
	Available int      `json:"available"`
	MinPrice  *float64 `json:"min_price"` // nil when the class has no free seats
}

// SeatMapEntry is the per-seat view used by the seat-map endpoint
type SeatMapEntry struct {
	ID         string  `json:"id"`
	SeatNumber string  `json:"seat_number"`
	Price      float64 `json:"price"`
}

// ClassSeatMap groups one cabin class into available and booked seats
type ClassSeatMap struct {
	Available []SeatMapEntry `json:"available"`
	Booked    []SeatMapEntry `json:"booked"`
}

// Availability derives per-class counts and minimum prices from a flight
// snapshot. Pure: the snapshot is never mutated.
func Availability(flight *Flight) map[CabinClass]ClassAvailability {
	out := make(map[CabinClass]ClassAvailability, len(CabinClasses))
	for _, class := range CabinClasses {
		out[class] = ClassAvailability{}
	}

	for i := range flight.Seats {
		seat := &flight.Seats[i]
		if seat.IsBooked {
			continue
		}
		entry := out[seat.Class]
		entry.Available++
		if entry.MinPrice == nil || seat.Price < *entry.MinPrice {
			price := seat.Price
			entry.MinPrice = &price
		}
		out[seat.Class] = entry
	}
	return out
}

// FreeSeats returns the free seats on the snapshot, optionally filtered by
// cabin class (empty classFilter means all classes).
func FreeSeats(flight *Flight, classFilter CabinClass) []Seat {
	var free []Seat
	for i := range flight.Seats {
		seat := flight.Seats[i]
		if seat.IsBooked {
			continue
		}
		if classFilter != "" && seat.Class != classFilter {
			continue
		}
		free = append(free, seat)
	}
	return free
}

// TotalFreeSeats counts free seats across all classes
func TotalFreeSeats(flight *Flight) int {
	count := 0
	for i := range flight.Seats {
		if !flight.Seats[i].IsBooked {
			count++
		}
	}
	return count
}

// SeatMap groups the snapshot's seats by class and availability, optionally
// filtered to one class. Matches the shape the seat-map endpoint serves.
func SeatMap(flight *Flight, classFilter CabinClass) map[CabinClass]ClassSeatMap {
	out := make(map[CabinClass]ClassSeatMap, len(CabinClasses))
	for _, class := range CabinClasses {
		if classFilter != "" && class != classFilter {
			continue
		}
		out[class] = ClassSeatMap{Available: []SeatMapEntry{}, Booked: []SeatMapEntry{}}
	}

	for i := range flight.Seats {
		seat := &flight.Seats[i]
		if classFilter != "" && seat.Class != classFilter {
			continue
		}
		entry := SeatMapEntry{
			ID:         seat.ID.String(),
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
		}
		group := out[seat.Class]
		if seat.IsBooked {
			group.Booked = append(group.Booked, entry)
		} else {
			group.Available = append(group.Available, entry)
		}
		out[seat.Class] = group
	}
	return out
}

// FindSeats resolves the requested seat IDs against the snapshot, failing fast
// with UnknownSeatError before any store write is attempted.
func FindSeats(flight *Flight, seatIDs []uuid.UUID) ([]Seat, error) {
	found := make([]Seat, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		seat := flight.SeatByID(seatID)
		if seat == nil {
			return nil, &apperrors.UnknownSeatError{SeatID: seatID.String()}
		}
		found = append(found, *seat)
	}
	return found, nil
}
