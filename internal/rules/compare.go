package rules

// CanBeat determines if candidate may be played over reference.
// A nil (or Invalid) reference means the round is open and any valid
// combination may lead.
func CanBeat(candidate, reference Combination) bool {
	if candidate == nil || candidate.Kind() == Invalid {
		return false
	}
	if reference == nil || reference.Kind() == Invalid {
		return true
	}

	// --- Override tier ---
	if reference.Kind() == Rocket {
		return false
	}
	if candidate.Kind() == Rocket {
		return true
	}
	if candidate.Kind() == Bomb && reference.Kind() != Bomb {
		return true
	}

	// --- Standard rules ---
	// 1. Must be the same kind
	if candidate.Kind() != reference.Kind() {
		return false
	}
	// 2. Chains and planes must share their structure
	if !sameShape(candidate, reference) {
		return false
	}
	// 3. Strictly higher power
	return candidate.Power() > reference.Power()
}

func sameShape(a, b Combination) bool {
	switch av := a.(type) {
	case Chain:
		bv, ok := b.(Chain)
		return ok && av.Length == bv.Length
	case Plane:
		bv, ok := b.(Plane)
		return ok && av.Run == bv.Run
	}
	return len(a.Cards()) == len(b.Cards())
}
