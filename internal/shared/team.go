package shared

// Side identifies which camp a seat plays for once the landlord is known.
type Side int

const (
	SideNone     Side = iota
	SideLandlord      // The single seat that won the bidding
	SideFarmers       // The two allied seats
)

func (s Side) String() string {
	switch s {
	case SideLandlord:
		return "landlord"
	case SideFarmers:
		return "farmers"
	default:
		return "none"
	}
}

// SideOf returns the side of seat given the landlord seat (-1 when unassigned).
func SideOf(seat, landlordSeat int) Side {
	if landlordSeat < 0 {
		return SideNone
	}
	if seat == landlordSeat {
		return SideLandlord
	}
	return SideFarmers
}
