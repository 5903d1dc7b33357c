package domain

import (
	"strconv"
	"time"
)

// Vehicle is one row of the fleet status sheet.
type Vehicle struct {
	ID        string
	Stock     string // as entered in the sheet, may be empty
	UpdatedAt string // raw timestamp text, may be empty
}

// ChangeRecord is one append-only row of the change log.
type ChangeRecord struct {
	FullName  string
	Phone     string
	VehicleID string
	Stock     int
	Timestamp time.Time

	// Read back from the sheet as typed. Rows entered by hand may hold
	// "25.5" or "2025-03-06 19:30", which Stock and Timestamp cannot carry.
	StockText string
	Date      string // leading YYYY-MM-DD token of the timestamp cell
}

// StockLabel is the stock as it should be shown.
func (r ChangeRecord) StockLabel() string {
	if r.StockText != "" {
		return r.StockText
	}
	return strconv.Itoa(r.Stock)
}

// Day is the record's local date in DateLayout.
func (r ChangeRecord) Day(loc *time.Location) string {
	if r.Date != "" {
		return r.Date
	}
	return r.Timestamp.In(loc).Format(DateLayout)
}

// VehiclePage is a slice of the fleet in store order.
type VehiclePage struct {
	Vehicles []Vehicle
	Number   int // 1-based
	Total    int // total number of pages
}

// HasPrev reports whether a page before this one exists.
func (p VehiclePage) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a page after this one exists.
func (p VehiclePage) HasNext() bool { return p.Number < p.Total }

// SummaryLine is a single vehicle line of the daily summary.
type SummaryLine struct {
	VehicleID string
	FullName  string
	Stock     string
	HasData   bool
}

// Layouts of the local-time strings stored in the sheets.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)
