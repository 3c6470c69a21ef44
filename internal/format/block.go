package format

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"telegram-alerts/internal/models"
)

// Block is the rendered text for one tracked entity.
type Block string

// DefaultWebURL is the public site used for listing links.
const DefaultWebURL = "https://www.spinny.com"

// CarSeparator separates car stanzas inside search results.
const CarSeparator = "\n\n─────────────\n\n"

// Options controls link construction.
type Options struct {
	WebURL string
}

func (o Options) webURL() string {
	if o.WebURL == "" {
		return DefaultWebURL
	}
	return strings.TrimRight(o.WebURL, "/")
}

// Remote text is untrusted; strip tags and escape entities for parse_mode=HTML.
var strict = bluemonday.StrictPolicy()

func clean(t models.Text) string {
	return strict.Sanitize(t.String())
}

func capitalize(t models.Text) string {
	s := strings.TrimSpace(t.String())
	if s == "" {
		return ""
	}
	return clean(models.Text(models.Capitalize(s)))
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// Title builds "{year} {make} {model} {variant}", falling back to the car
// name and finally to fallback.
func Title(c models.Car, fallback string) string {
	title := joinNonEmpty(" ", clean(c.Year), clean(c.Make), clean(c.Model), clean(c.Variant))
	if title == "" {
		title = clean(c.CarName)
	}
	if title == "" {
		title = strict.Sanitize(fallback)
	}
	return title
}

// ListingURL returns the permanent URL when present, else the fallback built
// from the listing id.
func ListingURL(c models.Car, entity models.TrackedEntity, opts Options) string {
	perm := strings.TrimSpace(c.PermanentURL.String())
	switch {
	case strings.HasPrefix(perm, "http://"), strings.HasPrefix(perm, "https://"):
		return perm
	case perm != "":
		if !strings.HasPrefix(perm, "/") {
			perm = "/" + perm
		}
		return opts.webURL() + perm
	}
	id := c.ID.Or(entity.ID)
	if id == "" {
		return ""
	}
	return fmt.Sprintf("%s/buy-used-cars/-d%s", opts.webURL(), id)
}

func mileageText(c models.Car) string {
	m := Mileage(c.Mileage)
	if m == NotAvailable {
		return m
	}
	return m + " km"
}

// ListingBlock renders the detail view for one listing.
func ListingBlock(entity models.TrackedEntity, c models.Car, opts Options) Block {
	status := models.ResolveStatus(c)

	lines := []string{
		fmt.Sprintf("<b>🚗 %s</b>", Title(c, entity.DisplayLabel())),
		fmt.Sprintf("⛽ %s | ⚙️ %s | 🛣 %s",
			orNA(capitalize(c.FuelType)), orNA(capitalize(c.Transmission)), mileageText(c)),
		fmt.Sprintf("%s %s", status.Emoji(), status.Label()),
		fmt.Sprintf("💰 <b>Price: %s</b>", Price(c.ListingPrice())),
	}
	if c.MarketPrice.Valid {
		lines = append(lines, fmt.Sprintf("📊 Market: %s", Price(c.MarketPrice)))
	}

	var breakup []string
	for _, row := range c.PriceBreakup {
		if row.IsTotal {
			continue
		}
		breakup = append(breakup, fmt.Sprintf("• %s: %s", orNA(clean(row.Label)), Lakhs(row.Value)))
	}
	if len(breakup) > 0 {
		lines = append(lines, "", "<b>Price Breakdown:</b>")
		lines = append(lines, breakup...)
	}

	if url := ListingURL(c, entity, opts); url != "" {
		lines = append(lines, "", fmt.Sprintf("<a href='%s'>View on Spinny</a>", strict.Sanitize(url)))
	}
	return Block(strings.Join(lines, "\n"))
}

// SearchCarStanza renders one car found by a city search.
func SearchCarStanza(entity models.TrackedEntity, c models.Car, opts Options) string {
	status := models.ResolveStatus(c)
	city := entity.DisplayLabel()
	if city == "" {
		city = clean(c.City)
	}

	lines := []string{
		fmt.Sprintf("<b>%s</b>", Title(c, strings.Join(entity.Models, ", "))),
		fmt.Sprintf("📍 %s | %s | %s", strict.Sanitize(city), orNA(capitalize(c.FuelType)), mileageText(c)),
		fmt.Sprintf("%s %s | %s", status.Emoji(), status.Label(), LakhsCompact(c.ListingPrice())),
	}
	if hub := clean(c.Hub); hub != "" {
		lines = append(lines, "🏢 "+hub)
	}
	if strings.TrimSpace(c.PermanentURL.String()) != "" {
		lines = append(lines, fmt.Sprintf("<a href='%s'>View →</a>", strict.Sanitize(ListingURL(c, entity, opts))))
	}
	return strings.Join(lines, "\n")
}

// SearchCityBlock renders all cars a city search returned.
func SearchCityBlock(entity models.TrackedEntity, cars []models.Car, opts Options) Block {
	stanzas := make([]string, 0, len(cars))
	for _, c := range cars {
		stanzas = append(stanzas, SearchCarStanza(entity, c, opts))
	}
	return Block(strings.Join(stanzas, CarSeparator))
}

// FailureBlock is the fixed warning rendered when an entity could not be fetched.
func FailureBlock(entity models.TrackedEntity) Block {
	return Block(fmt.Sprintf(FailureTemplate, strict.Sanitize(entity.DisplayLabel())))
}

// FailureTemplate is the warning line for a failed entity.
const FailureTemplate = "⚠️ Failed to fetch %s"

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
