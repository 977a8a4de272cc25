// Package itinerary renders a planned trip as a printable PDF.
package itinerary

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/planner"
)

// Document is everything printed on an itinerary.
type Document struct {
	Trip     planner.Candidate
	Rank     int
	Strategy planner.Strategy
	Budget   int64
	Days     int

	// Generation is the catalog generation the trip was planned from.
	Generation int64

	// GeneratedAt defaults to the current time.
	GeneratedAt time.Time
}

// Filename is a download name such as "travelwits-LAX-JFK-7d.pdf".
func (d Document) Filename() string {
	return fmt.Sprintf("travelwits-%s-%s-%dd.pdf", d.Trip.Outbound.Origin, d.Trip.Destination(), d.Days)
}

// Render lays out the document on one A4 page and returns the PDF bytes.
func Render(d Document) ([]byte, error) {
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}
	trip := d.Trip

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Trip to %s", cityName(trip.Destination())), false)
	pdf.SetCreator("travelwits", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(false, 20)
	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(18, 52, 86)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(120, 10, "travelwits itinerary", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, fmt.Sprintf("%s to %s, %d nights", cityName(trip.Outbound.Origin), cityName(trip.Destination()), d.Days), "", 1, "L", false, 0, "")
	pdf.SetY(36)

	section := func(title string) {
		pdf.SetFillColor(18, 52, 86)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(120, 7, value, "", 1, "L", false, 0, "")
	}

	section("Summary")
	row("Ranking", fmt.Sprintf("#%d by %s", d.Rank, d.Strategy))
	row("Budget", money(d.Budget))
	row("Catalog generation", fmt.Sprintf("%d", d.Generation))
	row("Generated", d.GeneratedAt.UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	flight := func(title string, leg catalog.FlightLeg) {
		section(title)
		row("Route", fmt.Sprintf("%s -> %s", leg.Origin, leg.Destination))
		row("Departs / arrives", fmt.Sprintf("%s / %s (%s)", leg.DepartureTime, leg.ArrivalTime, duration(leg.DurationMinutes)))
		row("Stops", stops(leg.Stops))
		row("Fare", money(leg.Price))
		if leg.Score != nil {
			row("Score", fmt.Sprintf("%.2f", *leg.Score))
		}
		pdf.Ln(4)
	}
	flight("Outbound flight", trip.Outbound)
	flight("Return flight", trip.Return)

	h := trip.Hotel
	section("Hotel")
	row("Name", h.Name)
	row("Address", h.Address)
	row("Stars / rating", fmt.Sprintf("%d stars, %d/10", h.Stars, h.Rating))
	row("Amenities", amenities(h.Amenities))
	row("Stay", fmt.Sprintf("%s x %d nights = %s", money(h.PricePerNight), d.Days, money(h.PricePerNight*int64(d.Days))))
	pdf.Ln(4)

	pdf.SetFillColor(230, 236, 242)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(50, 9, "TOTAL", "", 0, "L", true, 0, "")
	total := money(trip.TotalCost)
	if trip.TotalScore != nil {
		total += fmt.Sprintf("  (score %.2f)", *trip.TotalScore)
	}
	pdf.CellFormat(120, 9, total, "", 1, "L", true, 0, "")

	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, "Not a booking confirmation. Fares and rates come from a generated catalog.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render itinerary: %w", err)
	}
	return buf.Bytes(), nil
}

func cityName(code string) string {
	if c, ok := catalog.LookupCity(code); ok {
		return c.Name
	}
	return code
}

func money(v int64) string {
	return fmt.Sprintf("$%d", v)
}

func duration(minutes int) string {
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func stops(s []string) string {
	if len(s) == 0 {
		return "Direct"
	}
	return strings.Join(s, ", ")
}

func amenities(a []string) string {
	if len(a) == 0 {
		return "-"
	}
	return strings.Join(a, ", ")
}
