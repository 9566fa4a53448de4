package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/avigne/traintix/internal/htmldoc"
	"github.com/avigne/traintix/internal/ticket"
)

// productType is the closed classification of a purchased product.
type productType int

const (
	productCard productType = iota
	productMisc
	productVoyage
)

// product is a scan-local purchased item. It is consumed exactly once when
// the ticket is assembled and never survives past assembly.
type product struct {
	typ    productType
	price  ticket.Price
	voyage *voyage // set only for productVoyage
}

// voyage is the intermediate travel payload of a voyage product: the route
// and the train legs in the order they were scanned.
type voyage struct {
	departure   string
	destination string
	outbound    []*trainLeg
	inbound     []*trainLeg
}

// trainLeg is a single scheduled ride. Its date carries day and month only;
// the year is resolved by correlation against the travel blocks.
type trainLeg struct {
	date             voyageDate
	departureTime    voyageTime
	departureStation string
	arrivalTime      voyageTime
	arrivalStation   string
	trainType        string
	number           string
	passengers       []passenger
}

type passenger struct {
	age  string
	fare fareType
}

type fareType int

const (
	fareExchangeableRefundable fareType = iota
	fareDefault
)

// label renders the fare category as it appears in the output record.
func (f fareType) label() string {
	if f == fareExchangeableRefundable {
		return "échangeable"
	}
	return "other"
}

// fareOf resolves the fare category from a fare-details cell. Both branches
// currently resolve to the same category; the condition is kept until the
// fare taxonomy is settled.
func fareOf(details string) fareType {
	if strings.Contains(details, "Billet échangeable et remboursable") {
		return fareExchangeableRefundable
	}
	return fareExchangeableRefundable
}

// productScanner walks the product markup and builds the ordered product
// list. It owns an identity-keyed set of already-processed header nodes so
// card headers that also appear in the general product list are counted once
// without mutating the tree.
type productScanner struct {
	root    *html.Node
	visited map[*html.Node]struct{}
}

func newProductScanner(root *html.Node) *productScanner {
	return &productScanner{
		root:    root,
		visited: make(map[*html.Node]struct{}),
	}
}

// scan returns every product in scan order: cards first, then voyages.
func (s *productScanner) scan() ([]product, error) {
	products, err := s.scanCards()
	if err != nil {
		return nil, err
	}
	voyages, err := s.scanVoyages()
	if err != nil {
		return nil, err
	}
	return append(products, voyages...), nil
}

func (s *productScanner) scanCards() ([]product, error) {
	var products []product
	for _, cards := range htmldoc.ByID(s.root, "cards") {
		for _, header := range htmldoc.ByClass(cards, "product-header") {
			if !s.visit(header) {
				continue
			}
			p, err := s.scanCard(header)
			if err != nil {
				return nil, fmt.Errorf("card product: %w", err)
			}
			products = append(products, p)
		}
	}
	return products, nil
}

// visit marks a header as processed, reporting false when it already was.
func (s *productScanner) visit(header *html.Node) bool {
	if _, ok := s.visited[header]; ok {
		return false
	}
	s.visited[header] = struct{}{}
	return true
}

func (s *productScanner) scanCard(header *html.Node) (product, error) {
	amount, err := single(htmldoc.ByTagClass(header, "td", "amount"), "card amount cell")
	if err != nil {
		return product{}, err
	}
	price, err := extractPrice(htmldoc.Text(amount))
	if err != nil {
		return product{}, err
	}
	return product{typ: productCard, price: price}, nil
}

func (s *productScanner) scanVoyages() ([]product, error) {
	if _, err := single(htmldoc.ByID(s.root, "block-command"), "command block"); err != nil {
		return nil, err
	}
	var products []product
	for _, header := range htmldoc.ByClass(s.root, "product-header") {
		typ, err := s.classify(header)
		if err != nil {
			return nil, err
		}
		// Cards were counted by the cards pass; misc products carry no
		// trip and no price cell of their own.
		if typ != productVoyage {
			continue
		}
		p, err := s.scanVoyage(header)
		if err != nil {
			return nil, fmt.Errorf("voyage product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

// classify probes a product header for its kind: a card-name marker makes it
// a card, a product-type image with the round-trip alternate text makes it a
// voyage, anything else is misc.
func (s *productScanner) classify(header *html.Node) (productType, error) {
	cardNames := htmldoc.ByClass(header, "card-name")
	if len(cardNames) > 1 {
		return 0, newErr(KindStructuralMismatch,
			"%d card name elements have been found", len(cardNames))
	}
	if len(cardNames) == 1 {
		return productCard, nil
	}
	var imgs []*html.Node
	for _, pt := range htmldoc.ByClass(header, "product-type") {
		imgs = append(imgs, htmldoc.ByTag(pt, "img")...)
	}
	img, err := single(imgs, "product type image")
	if err != nil {
		return 0, err
	}
	if htmldoc.Attr(img, "alt") == "Train Aller-retour" {
		return productVoyage, nil
	}
	return productMisc, nil
}

func (s *productScanner) scanVoyage(header *html.Node) (product, error) {
	od, err := single(htmldoc.ByTagClass(header, "p", "od"), "departure-destination line")
	if err != nil {
		return product{}, err
	}
	route := strings.Split(htmldoc.Text(od), "  ")
	if len(route) != 2 {
		return product{}, newErr(KindStructuralMismatch,
			"expected departure-destination to contain 2 strings, actually contains %d", len(route))
	}
	v := &voyage{departure: route[0], destination: route[1]}
	if err := s.walkLegs(v, header); err != nil {
		return product{}, err
	}
	price, err := s.voyagePrice(header)
	if err != nil {
		return product{}, err
	}
	return product{typ: productVoyage, price: price, voyage: v}, nil
}

// legWalk is the accumulator threaded through the sibling-row walk: the
// current parsed date, the train awaiting its passenger row, and the most
// recently read direction.
type legWalk struct {
	date     *voyageDate
	train    *trainLeg
	outbound bool
}

// walkLegs visits the tables immediately following a voyage header, one
// sibling at a time, stopping at the first sibling that is empty or absent.
// Row classes are the only transition triggers: a travel-date row updates
// the carried date, a details row opens a train, a passengers row closes it.
func (s *productScanner) walkLegs(v *voyage, header *html.Node) error {
	cur := legWalk{outbound: true}
	for tbl := htmldoc.NextSiblingTag(header, "table"); tbl != nil && !htmldoc.IsEmpty(tbl); tbl = htmldoc.NextSiblingTag(tbl, "table") {
		if err := s.legStep(v, &cur, tbl); err != nil {
			return err
		}
	}
	return nil
}

func (s *productScanner) legStep(v *voyage, cur *legWalk, tbl *html.Node) error {
	if cells := htmldoc.ByTagClass(tbl, "td", "product-travel-date"); len(cells) > 0 {
		cell, err := single(cells, "travel date cell")
		if err != nil {
			return err
		}
		d, err := extractVoyageDate(htmldoc.Text(cell))
		if err != nil {
			return err
		}
		cur.date = &d
	}

	if htmldoc.HasClass(tbl, "product-details") {
		if cur.date == nil {
			return newErr(KindStructuralMismatch,
				"train details appear before any travel date row")
		}
		train, err := s.scanTrain(tbl)
		if err != nil {
			return err
		}
		train.date = *cur.date

		way, err := single(htmldoc.ByClass(tbl, "travel-way"), "travel way cell")
		if err != nil {
			return err
		}
		switch htmldoc.Text(way) {
		case ticket.WayOutbound:
			cur.outbound = true
		case ticket.WayReturn:
			cur.outbound = false
		default:
			return newErr(KindUnknownEnum, "unknown travel way: %q", htmldoc.Text(way))
		}
		cur.train = train
	}

	if htmldoc.HasClass(tbl, "passengers") {
		if cur.train == nil {
			return newErr(KindStructuralMismatch,
				"passengers row appears before any train details row")
		}
		passengers, err := s.scanPassengers(tbl)
		if err != nil {
			return err
		}
		cur.train.passengers = passengers
		if cur.outbound {
			v.outbound = append(v.outbound, cur.train)
		} else {
			v.inbound = append(v.inbound, cur.train)
		}
		cur.train = nil
	}
	return nil
}

func (s *productScanner) scanTrain(tbl *html.Node) (*trainLeg, error) {
	train := &trainLeg{}

	depHour, err := single(htmldoc.ByClass(tbl, "origin-destination-hour", "segment-departure"), "departure hour cell")
	if err != nil {
		return nil, err
	}
	if train.departureTime, err = extractVoyageTime(htmldoc.Text(depHour)); err != nil {
		return nil, err
	}

	depStation, err := single(htmldoc.ByClass(tbl, "origin-destination-station", "segment-departure"), "departure station cell")
	if err != nil {
		return nil, err
	}
	train.departureStation = htmldoc.Text(depStation)

	arrHour, err := single(htmldoc.ByClass(tbl, "origin-destination-border", "origin-destination-hour", "segment-arrival"), "arrival hour cell")
	if err != nil {
		return nil, err
	}
	if train.arrivalTime, err = extractVoyageTime(htmldoc.Text(arrHour)); err != nil {
		return nil, err
	}

	arrStation, err := single(htmldoc.ByClass(tbl, "origin-destination-border", "origin-destination-station", "segment-arrival"), "arrival station cell")
	if err != nil {
		return nil, err
	}
	train.arrivalStation = htmldoc.Text(arrStation)

	// Train type and number ride in the two segment cells that follow the
	// departure station cell.
	typeCell := htmldoc.NextSiblingTag(depStation, "td")
	if typeCell == nil || !htmldoc.HasClass(typeCell, "segment") {
		return nil, newErr(KindStructuralMismatch, "no train type cell after the departure station")
	}
	train.trainType = htmldoc.Text(typeCell)

	numberCell := htmldoc.NextSiblingTag(typeCell, "td")
	if numberCell == nil || !htmldoc.HasClass(numberCell, "segment") {
		return nil, newErr(KindStructuralMismatch, "no train number cell after the train type")
	}
	train.number = htmldoc.Text(numberCell)

	return train, nil
}

func (s *productScanner) scanPassengers(tbl *html.Node) ([]passenger, error) {
	var passengers []passenger
	for _, tr := range htmldoc.ByTag(tbl, "tr") {
		tds := htmldoc.ByTag(tr, "td")
		if len(tds) == 1 && htmldoc.HasClass(tds[0], "spacer") {
			continue
		}
		typologies := htmldoc.ByTagClass(tr, "td", "typology")
		if len(typologies) == 0 || htmldoc.IsEmpty(typologies[0]) {
			return nil, newErr(KindStructuralMismatch, "no typology found in passenger row")
		}
		age, err := extractPassengerAge(htmldoc.Text(typologies[0]))
		if err != nil {
			return nil, err
		}
		var details strings.Builder
		for _, fd := range htmldoc.ByTagClass(tr, "td", "fare-details") {
			details.WriteString(htmldoc.Text(fd))
		}
		passengers = append(passengers, passenger{
			age:  age,
			fare: fareOf(details.String()),
		})
	}
	return passengers, nil
}

// voyagePrice locates the unique currency-bearing cell of a voyage header.
func (s *productScanner) voyagePrice(header *html.Node) (ticket.Price, error) {
	var priceCells []*html.Node
	for _, cell := range htmldoc.ByTagClass(header, "td", "cell") {
		if strings.Contains(htmldoc.Text(cell), "€") {
			priceCells = append(priceCells, cell)
		}
	}
	if len(priceCells) != 1 {
		return ticket.Price{}, newErr(KindStructuralMismatch,
			"expected to find 1 price cell of a voyage, actually found %d cells", len(priceCells))
	}
	return extractPrice(htmldoc.Text(priceCells[0]))
}

// single enforces that exactly one element matched.
func single(nodes []*html.Node, what string) (*html.Node, error) {
	if len(nodes) == 0 {
		return nil, newErr(KindStructuralMismatch, "did not find any %s", what)
	}
	if len(nodes) > 1 {
		return nil, newErr(KindStructuralMismatch,
			"expected to find a single %s, found %d elements", what, len(nodes))
	}
	return nodes[0], nil
}
