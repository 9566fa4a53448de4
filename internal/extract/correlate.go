package extract

import "time"

// resolvedLeg is a train leg whose calendar date has been resolved against a
// travel record, packaged in scan order: each voyage's outbound legs first,
// then its return legs.
type resolvedLeg struct {
	train    *trainLeg
	date     time.Time
	outbound bool
}

// correlate joins every voyage leg to the travel record sharing its
// departure, destination and (day, month) key. The document never links the
// two regions by identifier, so this heuristic key is the only join
// available.
func correlate(products []product, travels []travel) ([]resolvedLeg, error) {
	var legs []resolvedLeg
	for _, p := range products {
		if p.typ != productVoyage {
			continue
		}
		v := p.voyage
		for _, t := range v.outbound {
			tr, err := findTravel(travels, v, t, true)
			if err != nil {
				return nil, err
			}
			legs = append(legs, resolvedLeg{train: t, date: tr.outboundDate, outbound: true})
		}
		for _, t := range v.inbound {
			tr, err := findTravel(travels, v, t, false)
			if err != nil {
				return nil, err
			}
			legs = append(legs, resolvedLeg{train: t, date: tr.returnDate, outbound: false})
		}
	}
	return legs, nil
}

func findTravel(travels []travel, v *voyage, leg *trainLeg, outbound bool) (*travel, error) {
	for i := range travels {
		tr := &travels[i]
		if tr.departure != v.departure || tr.destination != v.destination {
			continue
		}
		date := tr.outboundDate
		if !outbound {
			date = tr.returnDate
		}
		if leg.date.Day == date.Day() && leg.date.Month == int(date.Month())-1 {
			return tr, nil
		}
	}
	return nil, newErr(KindCorrelationFailure,
		"no travel date found for %s <> %s, day %d month %d",
		v.departure, v.destination, leg.date.Day, leg.date.Month)
}
