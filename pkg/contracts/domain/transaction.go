package domain

import (
	"time"
)

// RawTransaction is one ticket-block sale exactly as it appears in the
// source CSV. Every field is kept as text until the deriver parses it.
type RawTransaction struct {
	Line            int    `json:"line"`
	Section         string `json:"section" csv:"Section"`
	Seats           string `json:"seats" csv:"Number of Seats"`
	TicketPrice     string `json:"ticket_price" csv:"Ticket Price"`
	TotalBlockPrice string `json:"total_block_price" csv:"Total Block Price"`
	EventDate       string `json:"event_date" csv:"Event Date"`
	SaleDate        string `json:"sale_date" csv:"Sale Date"`
	AwayTeam        string `json:"away_team" csv:"Away Team"`
	Promotion       string `json:"promotion,omitempty" csv:"Promotion"`
}

// Sale is a cleaned and classified transaction. Values are computed once by
// the deriver and never modified afterwards.
type Sale struct {
	Section      string          `json:"section"`
	Opponent     string          `json:"opponent"`
	Seats        int             `json:"seats"`
	TicketPrice  float64         `json:"ticket_price"`
	TotalRevenue float64         `json:"total_revenue"`
	EventDate    time.Time       `json:"event_date"`
	SaleDate     time.Time       `json:"sale_date"`
	DaysBefore   int             `json:"days_before"`
	Category     SeatingCategory `json:"seating_category"`
	Timing       TimingBucket    `json:"timing_bucket"`
	Buyer        BuyerType       `json:"buyer_type"`
	Promotion    string          `json:"promotion,omitempty"`
	Promoted     bool            `json:"promoted"`
}

// DayOfWeek returns the weekday the event was played on.
func (s Sale) DayOfWeek() time.Weekday {
	return s.EventDate.Weekday()
}

// Month returns the month the event was played in.
func (s Sale) Month() time.Month {
	return s.EventDate.Month()
}
