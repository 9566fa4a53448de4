// Package report renders a human-readable summary of a parsed ticket.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/avigne/traintix/internal/ticket"
)

// Markdown builds the summary document for a ticket.
func Markdown(t *ticket.Ticket) string {
	var b strings.Builder
	b.WriteString("# Order confirmation\n\n")
	fmt.Fprintf(&b, "Status: **%s**\n", t.Status)

	for _, trip := range t.Result.Trips {
		fmt.Fprintf(&b, "\n## Trip %s (%s)\n\n", trip.Code, trip.Name)
		fmt.Fprintf(&b, "Total price: %.2f EUR\n\n", trip.Details.Price.Value())
		for _, rt := range trip.Details.RoundTrips {
			fmt.Fprintf(&b, "### %s, %s\n\n", rt.Type, rt.Date)
			for _, train := range rt.Trains {
				fmt.Fprintf(&b, "- %s %s: %s %s to %s %s\n",
					train.Type, train.Number,
					train.DepartureStation, train.DepartureTime,
					train.ArrivalStation, train.ArrivalTime)
				for _, p := range train.Passengers {
					fmt.Fprintf(&b, "  - passenger: %s %s\n", p.Type, p.Age)
				}
			}
			b.WriteString("\n")
		}
	}

	if len(t.Result.Custom.Prices) > 0 {
		b.WriteString("\n## Prices\n\n")
		for _, p := range t.Result.Custom.Prices {
			fmt.Fprintf(&b, "- %.2f EUR\n", p.Value)
		}
	}
	return b.String()
}

// HTML renders the Markdown summary as an HTML page.
func HTML(t *ticket.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(t)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
