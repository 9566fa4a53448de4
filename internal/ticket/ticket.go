// Package ticket defines the normalized travel-ticket record produced by the
// extraction engine, and its serialization.
//
// Field declaration order fixes the JSON emission order; downstream
// consumers compare the output byte-for-byte against golden files.
package ticket

import (
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// Leg direction literals as they appear in the output record.
const (
	WayOutbound = "Aller"
	WayReturn   = "Retour"
)

// DateLayout is the emission format for resolved calendar dates. The time
// component is always midnight since only day, month and year are resolved.
const DateLayout = "2006-01-02 15:04:05"

type Ticket struct {
	Status string `json:"status"`
	Result Result `json:"result"`
}

type Result struct {
	Trips  []Trip `json:"trips,omitempty"`
	Custom Custom `json:"custom"`
}

type Trip struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Details Details `json:"details"`
}

type Details struct {
	Price      Price       `json:"price"`
	RoundTrips []RoundTrip `json:"roundTrips"`
}

// RoundTrip is one resolved leg of a round trip, tagged "Aller" or "Retour".
type RoundTrip struct {
	Type   string  `json:"type"`
	Date   string  `json:"date"`
	Trains []Train `json:"trains"`
}

type Train struct {
	DepartureTime    string      `json:"departureTime"`
	DepartureStation string      `json:"departureStation"`
	ArrivalTime      string      `json:"arrivalTime"`
	ArrivalStation   string      `json:"arrivalStation"`
	Type             string      `json:"type"`
	Number           string      `json:"number"`
	Passengers       []Passenger `json:"passengers,omitempty"`
}

type Passenger struct {
	Type string `json:"type"`
	Age  string `json:"age"`
}

// Custom lists every scanned product's price, cards and voyages alike, for
// an aggregate cost breakdown independent of trip grouping.
type Custom struct {
	Prices []PriceValue `json:"prices"`
}

type PriceValue struct {
	Value float64 `json:"value"`
}

// Price is an exact amount in euros and cents. Cents stay within 0-99 and
// no amount is ever negative.
type Price struct {
	Euros int
	Cents int
}

// Value returns the numeric amount, euros plus cents/100.
func (p Price) Value() float64 {
	return float64(p.Euros) + float64(p.Cents)/100
}

func (p Price) String() string {
	return strconv.Itoa(p.Euros) + "," + twoDigits(p.Cents) + " €"
}

// MarshalJSON emits the price as a plain JSON number.
func (p Price) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, p.Value(), 'f', -1, 64), nil
}

func twoDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}

// Encode writes the ticket as indented JSON in the fixed field order.
func Encode(w io.Writer, t *Ticket) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
