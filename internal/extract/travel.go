package extract

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/avigne/traintix/internal/htmldoc"
)

// travel is a scan-local record of one travel block: the route and the full
// outbound and return calendar dates, year included. It is built from a
// document region independent of the product markup and consumed exactly
// once by correlation.
type travel struct {
	departure    string
	destination  string
	outboundDate time.Time
	returnDate   time.Time
}

// scanTravels builds one travel record per travel division inside the
// single travel container.
func scanTravels(root *html.Node) ([]travel, error) {
	block, err := single(htmldoc.ByID(root, "block-travel"), "travel block")
	if err != nil {
		return nil, err
	}
	var travels []travel
	for _, div := range htmldoc.ByIDPrefix(block, "travel") {
		if div.Data != "div" {
			continue
		}
		t, err := scanTravel(div)
		if err != nil {
			return nil, err
		}
		travels = append(travels, t)
	}
	return travels, nil
}

func scanTravel(div *html.Node) (travel, error) {
	pnr, err := single(htmldoc.ByTagClass(div, "table", "block-pnr"), "pnr table")
	if err != nil {
		return travel{}, err
	}
	summary, err := single(htmldoc.ByTagClass(pnr, "td", "pnr-summary"), "pnr summary cell")
	if err != nil {
		return travel{}, err
	}
	text := htmldoc.Text(summary)

	// Only round-trip travel is implemented; the marker is the one signal
	// the document gives about the travel shape.
	if !strings.Contains(text, "<>") {
		return travel{}, newErr(KindUnknownEnum,
			"unsupported travel shape: no round-trip marker in %q", text)
	}

	departure, destination, err := extractTravelRoute(text)
	if err != nil {
		return travel{}, err
	}
	dates, err := extractTravelDates(text)
	if err != nil {
		return travel{}, err
	}
	outbound, err := parseTravelDate(dates[0])
	if err != nil {
		return travel{}, err
	}
	ret, err := parseTravelDate(dates[1])
	if err != nil {
		return travel{}, err
	}
	return travel{
		departure:    departure,
		destination:  destination,
		outboundDate: outbound,
		returnDate:   ret,
	}, nil
}

func parseTravelDate(s string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, newErr(KindStructuralMismatch, "travel date %q: %v", s, err)
	}
	return t, nil
}
