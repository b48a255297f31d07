package analytics

import "time"

// Window is a UTC time range with bounds preformatted for Shopify search
// filters.
type Window struct {
	Start time.Time
	End   time.Time
}

func WindowDaysBack(now time.Time, days int) Window {
	end := now.UTC()
	return Window{Start: end.Add(-time.Duration(days) * 24 * time.Hour), End: end}
}

func WindowHoursBack(now time.Time, hours int) Window {
	end := now.UTC()
	return Window{Start: end.Add(-time.Duration(hours) * time.Hour), End: end}
}

// PreviousWindow shifts back by length days, ending where w starts.
func (w Window) PreviousWindow(days int) Window {
	return Window{Start: w.Start.Add(-time.Duration(days) * 24 * time.Hour), End: w.Start}
}

func (w Window) StartISO() string { return w.Start.Format(time.RFC3339) }
func (w Window) EndISO() string   { return w.End.Format(time.RFC3339) }

// StartDate and EndDate are the date-only bounds reported back to the model.
func (w Window) StartDate() string { return w.Start.Format("2006-01-02") }
func (w Window) EndDate() string   { return w.End.Format("2006-01-02") }
