package model

// IncomeBucket is a payment total and transaction count over one period.
type IncomeBucket struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// IncomeSummary aggregates payments over the fixed reporting periods.
type IncomeSummary struct {
	All   IncomeBucket `json:"all"`
	Today IncomeBucket `json:"today"`
	Week  IncomeBucket `json:"week"`
	Month IncomeBucket `json:"month"`
}

// IncomePeriod pairs a reporting period label with its bucket.
type IncomePeriod struct {
	Label  string
	Bucket IncomeBucket
}

// Periods returns the buckets in display order.
func (s IncomeSummary) Periods() []IncomePeriod {
	return []IncomePeriod{
		{"all", s.All},
		{"today", s.Today},
		{"week", s.Week},
		{"month", s.Month},
	}
}

// DayIncome is one point of the 7-day income series. Date is the
// aggregation day (YYYY-MM-DD); DisplayDate is the day it is labelled with.
type DayIncome struct {
	Date        string  `json:"date"`
	DisplayDate string  `json:"display_date"`
	Total       float64 `json:"total"`
	Count       int     `json:"count"`
}
