package normalize

import (
	"time"

	"github.com/parkandride/parkride/internal/api"
	"github.com/parkandride/parkride/internal/model"
	"github.com/parkandride/parkride/internal/timecalc"
)

// SeriesLength is the number of points in the income series.
const SeriesLength = 7

func bucket(v any) model.IncomeBucket {
	r := record(v)
	if r == nil {
		return model.IncomeBucket{}
	}
	total, _ := firstNumber(r, "total")
	count, _ := firstNumber(r, "count")
	return model.IncomeBucket{Total: total, Count: int(count)}
}

// IncomeSummary maps the payments summary. Missing periods are zero.
func IncomeSummary(r api.Record) model.IncomeSummary {
	return model.IncomeSummary{
		All:   bucket(r["all"]),
		Today: bucket(r["today"]),
		Week:  bucket(r["week"]),
		Month: bucket(r["month"]),
	}
}

// LastSevenDays builds a contiguous 7-day series ending at the latest date
// the backend returned, whatever their order (today's UTC date when none
// parse). Days the backend did not report are zero-filled. Each point's
// display date is one day after its aggregation date.
func LastSevenDays(days []api.Record, today time.Time) []model.DayIncome {
	var end time.Time
	byDate := make(map[string]api.Record, len(days))
	for _, r := range days {
		if r == nil {
			continue
		}
		d, err := timecalc.ParseDate(firstString(r, "date"))
		if err != nil {
			continue
		}
		if d.After(end) {
			end = d
		}
		key := d.Format(timecalc.DateLayout)
		if _, seen := byDate[key]; !seen {
			byDate[key] = r
		}
	}

	if end.IsZero() {
		end = today.UTC()
	}

	series := make([]model.DayIncome, 0, SeriesLength)
	for _, day := range timecalc.DaysEnding(end, SeriesLength) {
		key := day.Format(timecalc.DateLayout)
		point := model.DayIncome{
			Date:        key,
			DisplayDate: day.AddDate(0, 0, 1).Format(timecalc.DateLayout),
		}
		if r, ok := byDate[key]; ok {
			point.Total, _ = firstNumber(r, "total")
			count, _ := firstNumber(r, "count")
			point.Count = int(count)
		}
		series = append(series, point)
	}
	return series
}
