package render

import (
	"fmt"
	"sort"
	"time"

	"bcibizz-gateway/internal/models"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAll     Period = "all"
)

const dayKeyLayout = "2006-01-02"

var seriesNames = map[models.TransactionType]string{
	models.TransactionTypeCasino: "Casino",
	models.TransactionTypeBonus:  "Bónus",
	models.TransactionTypeOther:  "Outros",
}

var seriesColors = map[models.TransactionType]string{
	models.TransactionTypeCasino: "#4caf50",
	models.TransactionTypeBonus:  "#13005A",
	models.TransactionTypeOther:  "#2196f3",
}

const defaultSeriesColor = "#CCCCCC"

// ParsePeriod maps a query value to a Period; unknown values mean all data.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s)
	case "":
		return PeriodMonthly
	default:
		return PeriodAll
	}
}

type Series struct {
	Type  models.TransactionType `json:"type"`
	Name  string                 `json:"name"`
	Data  []float64              `json:"data"`
	Color string                 `json:"color"`
}

// ChartView is the configuration handed to the chart widget.
type ChartView struct {
	Type   string   `json:"type"`
	Height int      `json:"height"`
	Curve  string   `json:"curve"`
	Period Period   `json:"period"`
	Empty  bool     `json:"empty"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

func newChartView(period Period) ChartView {
	return ChartView{Type: "area", Height: 300, Curve: "smooth", Period: period}
}

// FilterPeriod keeps the points of the period ending at now: the last seven
// days, the previous calendar month, or the current calendar year. Points
// without a usable date are always dropped.
func FilterPeriod(points []models.ChartPoint, period Period, now time.Time) []models.ChartPoint {
	loc := now.Location()
	keep := func(time.Time) bool { return true }

	switch period {
	case PeriodWeekly:
		weekAgo := now.Add(-7 * 24 * time.Hour)
		keep = func(t time.Time) bool { return !t.Before(weekAgo) }
	case PeriodMonthly:
		thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		lastMonth := thisMonth.AddDate(0, -1, 0)
		keep = func(t time.Time) bool { return !t.Before(lastMonth) && t.Before(thisMonth) }
	case PeriodYearly:
		keep = func(t time.Time) bool { return t.In(loc).Year() == now.Year() }
	}

	filtered := make([]models.ChartPoint, 0, len(points))
	for _, p := range points {
		if !p.Date.IsZero() && keep(p.Date.Time) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Chart builds the daily profit series of the period, one series per
// transaction type.
func Chart(points []models.ChartPoint, period Period, now time.Time) ChartView {
	view := newChartView(period)

	filtered := FilterPeriod(points, period, now)
	if len(filtered) == 0 {
		view.Empty = true
		view.Labels = []string{"Sem dados"}
		view.Series = []Series{{Name: "Ganhos", Data: []float64{0}, Color: "#13005A"}}
		return view
	}

	keys, types, totals := group(filtered, func(t time.Time) string {
		return t.UTC().Format(dayKeyLayout)
	})

	view.Labels = make([]string, len(keys))
	for i, key := range keys {
		day, _ := time.Parse(dayKeyLayout, key)
		view.Labels[i] = ShortDate(day)
	}
	view.Series = buildSeries(keys, types, totals)

	return view
}

// Buckets sums every point into its calendar period (ISO week, month or
// year) per transaction type. Labels are the period keys.
func Buckets(points []models.ChartPoint, period Period) ChartView {
	view := newChartView(period)

	keyOf := PeriodKey(period)
	keys, types, totals := group(points, func(t time.Time) string {
		return keyOf(t.UTC())
	})

	if len(keys) == 0 {
		view.Empty = true
		view.Labels = []string{}
		view.Series = []Series{}
		return view
	}

	view.Labels = keys
	view.Series = buildSeries(keys, types, totals)
	return view
}

// PeriodKey returns the function computing the bucket key of a date.
func PeriodKey(period Period) func(time.Time) string {
	switch period {
	case PeriodWeekly:
		return func(t time.Time) string {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%d-W%02d", year, week)
		}
	case PeriodYearly:
		return func(t time.Time) string { return fmt.Sprintf("%d", t.Year()) }
	case PeriodMonthly:
		return func(t time.Time) string { return t.Format("2006-01") }
	default:
		return func(t time.Time) string { return t.Format(dayKeyLayout) }
	}
}

// group sums profits by key and type. Keys come back sorted, types in order of
// first appearance.
func group(points []models.ChartPoint, keyOf func(time.Time) string) ([]string, []models.TransactionType, map[string]map[models.TransactionType]float64) {
	totals := make(map[string]map[models.TransactionType]float64)
	var types []models.TransactionType
	seen := make(map[models.TransactionType]bool)

	for _, p := range points {
		if p.Date.IsZero() {
			continue
		}
		key := keyOf(p.Date.Time)
		txType := p.TransactionType
		if txType == "" {
			txType = models.TransactionTypeOther
		}

		if totals[key] == nil {
			totals[key] = make(map[models.TransactionType]float64)
		}
		totals[key][txType] += p.Profit.Float64()

		if !seen[txType] {
			seen[txType] = true
			types = append(types, txType)
		}
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, types, totals
}

func buildSeries(keys []string, types []models.TransactionType, totals map[string]map[models.TransactionType]float64) []Series {
	series := make([]Series, 0, len(types))
	for _, txType := range types {
		data := make([]float64, len(keys))
		for i, key := range keys {
			data[i] = Finite(totals[key][txType])
		}

		name, ok := seriesNames[txType]
		if !ok {
			name = string(txType)
		}
		color, ok := seriesColors[txType]
		if !ok {
			color = defaultSeriesColor
		}

		series = append(series, Series{Type: txType, Name: name, Data: data, Color: color})
	}
	return series
}
