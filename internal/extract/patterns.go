package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/avigne/traintix/internal/ticket"
)

// Month names as they appear in confirmation documents, in calendar order.
// The lookup is case- and accent-exact; the table carries the source
// spellings, historical typos included.
var monthsFr = []string{
	"Janvier", "Fevrier", "Mars", "Avril", "Mai", "Juin",
	"Julliet", "Août", "Septembre", "Octobre", "Novembre", "Decembre",
}

var (
	priceRe        = regexp.MustCompile(`(\d+,\d{2}) *€`)
	voyageDateRe   = regexp.MustCompile(`(\d{1,2}) +(\p{L}+)`)
	passengerAgeRe = regexp.MustCompile(`\(\d{1,2} à \d{1,2} ans\)`)
	travelRouteRe  = regexp.MustCompile(`[A-Z]+[ \t\x{00a0}\x{202f}]*<>[ \t\x{00a0}\x{202f}]*[A-Z]+`)
	travelDateRe   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)

// routeCutset covers the regular and no-break spaces that surround the
// round-trip marker in summary cells.
const routeCutset = " \t  "

// requireMatches enforces strict match cardinality: zero matches is a
// missing pattern, any other wrong count is a structural mismatch.
func requireMatches(found int, what string, expected int) error {
	if found == 0 {
		return newErr(KindPatternNotFound, "no %s pattern found", what)
	}
	if found != expected {
		return newErr(KindStructuralMismatch,
			"matching %s: expected %d matches, found %d", what, expected, found)
	}
	return nil
}

// extractPrice pulls the single "NN,NN €" amount out of a text fragment.
func extractPrice(s string) (ticket.Price, error) {
	matches := priceRe.FindAllStringSubmatch(s, -1)
	if err := requireMatches(len(matches), "price", 1); err != nil {
		return ticket.Price{}, err
	}
	parts := strings.Split(matches[0][1], ",")
	euros, err := strconv.Atoi(parts[0])
	if err != nil {
		return ticket.Price{}, newErr(KindPatternNotFound, "price euros %q: %v", parts[0], err)
	}
	cents, err := strconv.Atoi(parts[1])
	if err != nil {
		return ticket.Price{}, newErr(KindPatternNotFound, "price cents %q: %v", parts[1], err)
	}
	return ticket.Price{Euros: euros, Cents: cents}, nil
}

// voyageDate is a leg date as the product block carries it: day and month
// only, no year. The year is resolved later by correlation.
type voyageDate struct {
	Day   int
	Month int // 0-based calendar index
}

// extractVoyageDate pulls a "<day> <month name>" date out of a text fragment.
func extractVoyageDate(s string) (voyageDate, error) {
	matches := voyageDateRe.FindAllStringSubmatch(s, -1)
	if err := requireMatches(len(matches), "date", 1); err != nil {
		return voyageDate{}, err
	}
	day, err := strconv.Atoi(matches[0][1])
	if err != nil {
		return voyageDate{}, newErr(KindPatternNotFound, "date day %q: %v", matches[0][1], err)
	}
	monthStr := matches[0][2]
	for i, m := range monthsFr {
		if m == monthStr {
			return voyageDate{Day: day, Month: i}, nil
		}
	}
	return voyageDate{}, newErr(KindUnknownEnum, "month %q was not found", monthStr)
}

// voyageTime is an hour-and-minute departure or arrival time.
type voyageTime struct {
	Hours   int
	Minutes int
}

// String renders the time as zero-padded "HH:MM".
func (t voyageTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// extractVoyageTime splits an "HHhMM" fragment on the literal hour separator.
func extractVoyageTime(s string) (voyageTime, error) {
	parts := strings.Split(s, "h")
	if len(parts) == 1 {
		return voyageTime{}, newErr(KindPatternNotFound, "no hour separator in travel time %q", s)
	}
	if len(parts) != 2 {
		return voyageTime{}, newErr(KindStructuralMismatch,
			"expected 2 parts of travel time in %q, found %d", s, len(parts))
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return voyageTime{}, newErr(KindPatternNotFound, "travel time hours %q: %v", parts[0], err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return voyageTime{}, newErr(KindPatternNotFound, "travel time minutes %q: %v", parts[1], err)
	}
	return voyageTime{Hours: hours, Minutes: minutes}, nil
}

// extractPassengerAge returns the parenthesized "(N à M ans)" label verbatim.
func extractPassengerAge(s string) (string, error) {
	matches := passengerAgeRe.FindAllString(s, -1)
	if err := requireMatches(len(matches), "passenger age", 1); err != nil {
		return "", err
	}
	return matches[0], nil
}

// extractTravelRoute splits a round-trip summary on the "<>" marker and
// returns the trimmed departure and destination.
func extractTravelRoute(s string) (departure, destination string, err error) {
	matches := travelRouteRe.FindAllString(s, -1)
	if err := requireMatches(len(matches), "travel departure and destination", 1); err != nil {
		return "", "", err
	}
	dep, dest, _ := strings.Cut(matches[0], "<>")
	return strings.Trim(dep, routeCutset), strings.Trim(dest, routeCutset), nil
}

// extractTravelDates returns the two DD/MM/YYYY dates of a round-trip
// summary, in document order: outbound first, return second.
func extractTravelDates(s string) ([]string, error) {
	matches := travelDateRe.FindAllString(s, -1)
	if err := requireMatches(len(matches), "travel dates", 2); err != nil {
		return nil, err
	}
	return matches, nil
}
