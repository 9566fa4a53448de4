package extract

import "github.com/avigne/traintix/internal/ticket"

// attachPassengers verifies that every leg carries the same passenger group
// and attaches the shared group to the first train of the last round trip
// only. The output format does not preserve passenger identity per leg; the
// final leg slot is the one place the group is emitted.
func attachPassengers(products []product, roundTrips []ticket.RoundTrip) error {
	var groups [][]passenger
	for _, p := range products {
		if p.typ != productVoyage {
			continue
		}
		for _, t := range p.voyage.outbound {
			groups = append(groups, t.passengers)
		}
		for _, t := range p.voyage.inbound {
			groups = append(groups, t.passengers)
		}
	}
	if len(groups) == 0 {
		return nil
	}
	first := groups[0]
	for i := 1; i < len(groups); i++ {
		if !passengerGroupsEqual(first, groups[i]) {
			return newErr(KindConsistencyFailure,
				"passenger group %d is not equal to the first passenger group", i)
		}
	}
	if len(roundTrips) == 0 {
		return nil
	}
	shared := make([]ticket.Passenger, len(first))
	for i, p := range first {
		shared[i] = ticket.Passenger{Type: p.fare.label(), Age: p.age}
	}
	last := &roundTrips[len(roundTrips)-1]
	last.Trains[0].Passengers = shared
	return nil
}

// passengerGroupsEqual compares two groups element-wise by age label and
// fare category.
func passengerGroupsEqual(first, second []passenger) bool {
	if len(first) != len(second) {
		return false
	}
	for i := range first {
		if first[i].age != second[i].age || first[i].fare != second[i].fare {
			return false
		}
	}
	return true
}
