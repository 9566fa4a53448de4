package extract

import (
	"testing"
	"time"
)

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCorrelate_ResolvesFullDates(t *testing.T) {
	v := &voyage{
		departure:   "PARIS",
		destination: "LYON",
		outbound:    []*trainLeg{{date: voyageDate{Day: 10, Month: 3}}},
		inbound:     []*trainLeg{{date: voyageDate{Day: 11, Month: 3}}},
	}
	products := []product{{typ: productVoyage, voyage: v}}
	travels := []travel{{
		departure:    "PARIS",
		destination:  "LYON",
		outboundDate: utcDate(2021, time.April, 10),
		returnDate:   utcDate(2021, time.April, 11),
	}}

	legs, err := correlate(products, travels)
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("expected 2 resolved legs, got %d", len(legs))
	}
	if !legs[0].outbound || legs[1].outbound {
		t.Errorf("expected outbound leg first, return leg second")
	}
	if !legs[0].date.Equal(utcDate(2021, time.April, 10)) {
		t.Errorf("expected outbound leg resolved to 2021-04-10, got %v", legs[0].date)
	}
	if !legs[1].date.Equal(utcDate(2021, time.April, 11)) {
		t.Errorf("expected return leg resolved to 2021-04-11, got %v", legs[1].date)
	}
}

func TestCorrelate_NoMatchingDay(t *testing.T) {
	v := &voyage{
		departure:   "PARIS",
		destination: "LYON",
		outbound:    []*trainLeg{{date: voyageDate{Day: 11, Month: 3}}},
	}
	products := []product{{typ: productVoyage, voyage: v}}
	travels := []travel{{
		departure:    "PARIS",
		destination:  "LYON",
		outboundDate: utcDate(2021, time.April, 10),
		returnDate:   utcDate(2021, time.April, 12),
	}}

	_, err := correlate(products, travels)
	wantKind(t, err, KindCorrelationFailure)
}

func TestCorrelate_NoMatchingRoute(t *testing.T) {
	v := &voyage{
		departure:   "PARIS",
		destination: "MARSEILLE",
		outbound:    []*trainLeg{{date: voyageDate{Day: 10, Month: 3}}},
	}
	products := []product{{typ: productVoyage, voyage: v}}
	travels := []travel{{
		departure:    "PARIS",
		destination:  "LYON",
		outboundDate: utcDate(2021, time.April, 10),
		returnDate:   utcDate(2021, time.April, 11),
	}}

	_, err := correlate(products, travels)
	wantKind(t, err, KindCorrelationFailure)
}

func TestCorrelate_IgnoresNonVoyageProducts(t *testing.T) {
	products := []product{{typ: productCard}, {typ: productMisc}}
	legs, err := correlate(products, nil)
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(legs) != 0 {
		t.Errorf("expected no legs, got %d", len(legs))
	}
}
