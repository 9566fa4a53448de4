// Package extract implements the extraction-and-correlation engine: it
// classifies loosely-typed document fragments into domain concepts, pulls
// typed values out of free text under strict cardinality checks, and
// cross-references the purchased products with the travel date blocks to
// assemble one normalized ticket record.
package extract

import (
	"golang.org/x/net/html"

	"github.com/avigne/traintix/internal/htmldoc"
	"github.com/avigne/traintix/internal/ticket"
)

// statusTitles maps the one recognized intro title to its status code.
var statusTitles = map[string]string{
	"Confirmation de votre commande": "ok",
}

// FromDocument runs the full extraction over a parsed confirmation document
// and assembles the ticket record. It either returns a complete ticket or
// fails outright; no partial record is ever produced.
func FromDocument(root *html.Node) (*ticket.Ticket, error) {
	status, err := readStatus(root)
	if err != nil {
		return nil, err
	}

	products, err := newProductScanner(root).scan()
	if err != nil {
		return nil, err
	}
	travels, err := scanTravels(root)
	if err != nil {
		return nil, err
	}
	legs, err := correlate(products, travels)
	if err != nil {
		return nil, err
	}

	tk := &ticket.Ticket{Status: status}

	tripBlocks := tripBlocks(root)
	if len(tripBlocks) > 0 {
		total, err := readTotalPrice(root)
		if err != nil {
			return nil, err
		}
		for _, block := range tripBlocks {
			code, name, err := readTripReference(block)
			if err != nil {
				return nil, err
			}
			roundTrips := buildRoundTrips(legs)
			if err := attachPassengers(products, roundTrips); err != nil {
				return nil, err
			}
			tk.Result.Trips = append(tk.Result.Trips, ticket.Trip{
				Code: code,
				Name: name,
				Details: ticket.Details{
					Price:      total,
					RoundTrips: roundTrips,
				},
			})
		}
	}

	prices := make([]ticket.PriceValue, 0, len(products))
	for _, p := range products {
		prices = append(prices, ticket.PriceValue{Value: p.price.Value()})
	}
	tk.Result.Custom.Prices = prices

	return tk, nil
}

func readStatus(root *html.Node) (string, error) {
	var title string
	for _, el := range htmldoc.ByID(root, "intro-title") {
		title += htmldoc.Text(el)
	}
	status, ok := statusTitles[title]
	if !ok {
		return "", newErr(KindUnknownEnum, "cannot treat the text %q in the intro title", title)
	}
	return status, nil
}

// tripBlocks returns every trip division: the elements under a table whose
// id starts with the travel-block prefix. The container's children share its
// naming scheme, so the prefix match covers multi-trip documents.
func tripBlocks(root *html.Node) []*html.Node {
	var blocks []*html.Node
	for _, el := range htmldoc.ByIDPrefix(root, "block-travel") {
		if htmldoc.InsideTag(el, "table") {
			blocks = append(blocks, el)
		}
	}
	return blocks
}

// readTripReference reads the booking code and name from the last pnr
// reference block of a trip division.
func readTripReference(block *html.Node) (code, name string, err error) {
	refs := htmldoc.ByTagClass(block, "table", "block-pnr")
	if len(refs) == 0 {
		return "", "", newErr(KindStructuralMismatch, "did not find any pnr reference block")
	}
	last := refs[len(refs)-1]
	return pnrInfo(last, "pnr-ref"), pnrInfo(last, "pnr-name"), nil
}

// pnrInfo concatenates the pnr-info spans under the cells of the given class.
func pnrInfo(block *html.Node, tdClass string) string {
	var out string
	for _, td := range htmldoc.ByTagClass(block, "td", tdClass) {
		for _, span := range htmldoc.ByTagClass(td, "span", "pnr-info") {
			out += htmldoc.Text(span)
		}
	}
	return out
}

// readTotalPrice reads the single total amount of the payment block.
func readTotalPrice(root *html.Node) (ticket.Price, error) {
	var cells []*html.Node
	for _, payment := range htmldoc.ByID(root, "block-payment") {
		for _, tbl := range htmldoc.ByTagClass(payment, "table", "total-amount") {
			cells = append(cells, htmldoc.ByTagClass(tbl, "td", "very-important")...)
		}
	}
	cell, err := single(cells, "total amount cell")
	if err != nil {
		return ticket.Price{}, err
	}
	return extractPrice(htmldoc.Text(cell))
}

// buildRoundTrips renders the resolved legs as output round trips, in the
// order they were scanned: each voyage's outbound legs, then its return legs.
func buildRoundTrips(legs []resolvedLeg) []ticket.RoundTrip {
	roundTrips := make([]ticket.RoundTrip, 0, len(legs))
	for _, leg := range legs {
		way := ticket.WayReturn
		if leg.outbound {
			way = ticket.WayOutbound
		}
		roundTrips = append(roundTrips, ticket.RoundTrip{
			Type: way,
			Date: leg.date.Format(ticket.DateLayout),
			Trains: []ticket.Train{{
				DepartureTime:    leg.train.departureTime.String(),
				DepartureStation: leg.train.departureStation,
				ArrivalTime:      leg.train.arrivalTime.String(),
				ArrivalStation:   leg.train.arrivalStation,
				Type:             leg.train.trainType,
				Number:           leg.train.number,
			}},
		})
	}
	return roundTrips
}
