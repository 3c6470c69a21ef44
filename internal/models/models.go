// Package models provides domain models for the listing alerts.
package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EntityKind distinguishes what a tracked entity refers to.
type EntityKind string

const (
	KindListing EntityKind = "listing" // a single listing id
	KindSearch  EntityKind = "search"  // a city search for a set of models
)

// TrackedEntity is a configured listing or search query monitored each run.
type TrackedEntity struct {
	Kind   EntityKind
	ID     string   // listing id, or city slug for searches
	Label  string   // display label
	Models []string // model filter for searches
}

// DisplayLabel returns the label, falling back to a title-cased id.
func (e TrackedEntity) DisplayLabel() string {
	if strings.TrimSpace(e.Label) != "" {
		return e.Label
	}
	return TitleSlug(e.ID)
}

// TitleSlug turns "delhi-ncr" into "Delhi Ncr".
func TitleSlug(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// PriceLine is one row of a listing's price break-up.
type PriceLine struct {
	Label   Text   `json:"label"`
	Value   Amount `json:"value"`
	IsTotal Flag   `json:"is_total"`
}

// Car is a listing record as returned by the marketplace API.
type Car struct {
	ID            Text        `json:"id"`
	CarName       Text        `json:"car_name"`
	Make          Text        `json:"make"`
	Model         Text        `json:"model"`
	Variant       Text        `json:"variant"`
	Year          Text        `json:"make_year"`
	Mileage       Amount      `json:"mileage"`
	FuelType      Text        `json:"fuel_type"`
	Transmission  Text        `json:"transmission"`
	City          Text        `json:"city"`
	Hub           Text        `json:"hub"`
	Sold          Flag        `json:"sold"`
	Booked        Flag        `json:"booked"`
	OnHold        Flag        `json:"on_hold"`
	Unpublished   Flag        `json:"unpublished"`
	SoftUnpublish Flag        `json:"soft_unpublish"`
	Upcoming      Flag        `json:"upcoming"`
	Price         Amount      `json:"price"`
	MarketPrice   Amount      `json:"market_price"`
	PermanentURL  Text        `json:"permanent_url"`
	PriceBreakup  []PriceLine `json:"price_breakup"`
}

// Total returns the break-up row flagged as total, if any.
func (c Car) Total() (PriceLine, bool) {
	for _, line := range c.PriceBreakup {
		if line.IsTotal {
			return line, true
		}
	}
	return PriceLine{}, false
}

// ListingPrice returns the listing price, falling back to the break-up total.
func (c Car) ListingPrice() Amount {
	if c.Price.Valid {
		return c.Price
	}
	if total, ok := c.Total(); ok {
		return total.Value
	}
	return Amount{}
}

// FetchResult is the outcome of querying the API for one tracked entity.
// Err is the failure marker; a nil Err means Cars holds the payload.
type FetchResult struct {
	Entity TrackedEntity
	Cars   []Car
	Count  int
	Err    error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Failed builds a failure result.
func Failed(entity TrackedEntity, err error) FetchResult {
	return FetchResult{Entity: entity, Count: -1, Err: err}
}
