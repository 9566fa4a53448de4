package extract

import (
	"strings"
	"testing"

	"github.com/avigne/traintix/internal/ticket"
)

func passengerProducts(groups ...[]passenger) []product {
	v := &voyage{departure: "PARIS", destination: "LYON"}
	for i, g := range groups {
		leg := &trainLeg{passengers: g}
		// Alternate legs between the outbound and return sequences.
		if i%2 == 0 {
			v.outbound = append(v.outbound, leg)
		} else {
			v.inbound = append(v.inbound, leg)
		}
	}
	return []product{{typ: productVoyage, voyage: v}}
}

func twoRoundTrips() []ticket.RoundTrip {
	return []ticket.RoundTrip{
		{Type: ticket.WayOutbound, Trains: []ticket.Train{{Number: "6001"}}},
		{Type: ticket.WayReturn, Trains: []ticket.Train{{Number: "6010"}}},
	}
}

func TestAttachPassengers_EqualGroups(t *testing.T) {
	group := []passenger{
		{age: "(26 à 59 ans)", fare: fareExchangeableRefundable},
		{age: "(26 à 59 ans)", fare: fareExchangeableRefundable},
	}
	products := passengerProducts(group, group)
	roundTrips := twoRoundTrips()

	if err := attachPassengers(products, roundTrips); err != nil {
		t.Fatalf("attachPassengers: %v", err)
	}
	if len(roundTrips[0].Trains[0].Passengers) != 0 {
		t.Errorf("expected no passengers on the first leg, got %d", len(roundTrips[0].Trains[0].Passengers))
	}
	got := roundTrips[1].Trains[0].Passengers
	if len(got) != 2 {
		t.Fatalf("expected the shared group on the last leg, got %d passengers", len(got))
	}
	if got[0].Type != "échangeable" || got[0].Age != "(26 à 59 ans)" {
		t.Errorf("unexpected passenger %+v", got[0])
	}
}

func TestAttachPassengers_MismatchNamesGroupIndex(t *testing.T) {
	first := []passenger{{age: "(26 à 59 ans)", fare: fareExchangeableRefundable}}
	second := []passenger{{age: "(0 à 3 ans)", fare: fareExchangeableRefundable}}
	products := passengerProducts(first, second)

	err := attachPassengers(products, twoRoundTrips())
	wantKind(t, err, KindConsistencyFailure)
	if !strings.Contains(err.Error(), "group 1") {
		t.Errorf("expected the offending group index in the message, got %q", err.Error())
	}
}

func TestAttachPassengers_DifferentGroupLengths(t *testing.T) {
	first := []passenger{
		{age: "(26 à 59 ans)", fare: fareExchangeableRefundable},
		{age: "(26 à 59 ans)", fare: fareExchangeableRefundable},
	}
	second := []passenger{{age: "(26 à 59 ans)", fare: fareExchangeableRefundable}}
	products := passengerProducts(first, second)

	err := attachPassengers(products, twoRoundTrips())
	wantKind(t, err, KindConsistencyFailure)
}

func TestAttachPassengers_NoVoyages(t *testing.T) {
	if err := attachPassengers([]product{{typ: productCard}}, twoRoundTrips()); err != nil {
		t.Fatalf("expected no error without voyage products, got %v", err)
	}
}

func TestAttachPassengers_NoRoundTrips(t *testing.T) {
	group := []passenger{{age: "(26 à 59 ans)", fare: fareExchangeableRefundable}}
	if err := attachPassengers(passengerProducts(group), nil); err != nil {
		t.Fatalf("expected no error without round trips, got %v", err)
	}
}
