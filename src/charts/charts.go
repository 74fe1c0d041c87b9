package charts

import (
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"linkspread/src/report"
	"linkspread/src/trend"
)

// Activity renders the posts-per-day line chart for one domain.
func Activity(w io.Writer, domain string, daily []trend.DayCount) error {
	xs, ys := seriesValues(daily)
	c := chart.Chart{
		Title:  fmt.Sprintf("Posts per day: %s", domain),
		Width:  900,
		Height: 400,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Range: flatRange(ys)},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    domain,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if err := c.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render activity chart: %w", err)
	}
	return nil
}

// Compare renders both domains' daily activity on one chart.
func Compare(w io.Writer, domain1 string, daily1 []trend.DayCount, domain2 string, daily2 []trend.DayCount) error {
	xs1, ys1 := seriesValues(daily1)
	xs2, ys2 := seriesValues(daily2)
	c := chart.Chart{
		Title:  fmt.Sprintf("Activity comparison: %s vs %s", domain1, domain2),
		Width:  900,
		Height: 400,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Range: flatRange(append(append([]float64(nil), ys1...), ys2...))},
		Series: []chart.Series{
			chart.TimeSeries{Name: domain1, XValues: xs1, YValues: ys1},
			chart.TimeSeries{Name: domain2, XValues: xs2, YValues: ys2},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	if err := c.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render comparison chart: %w", err)
	}
	return nil
}

// Emotions renders the emotion distribution bar chart.
func Emotions(w io.Writer, domain string, emotions []report.EmotionCount) error {
	bars := make([]chart.Value, 0, len(emotions))
	for _, ec := range emotions {
		bars = append(bars, chart.Value{Label: ec.Emotion, Value: float64(ec.Count)})
	}
	return renderBars(w, fmt.Sprintf("Emotion distribution: %s", domain), bars)
}

// Subreddits renders the top-subreddits bar chart.
func Subreddits(w io.Writer, domain string, subs []report.SubredditCount) error {
	bars := make([]chart.Value, 0, len(subs))
	for _, sc := range subs {
		bars = append(bars, chart.Value{Label: sc.Subreddit, Value: float64(sc.Count)})
	}
	return renderBars(w, fmt.Sprintf("Top subreddits: %s", domain), bars)
}

func renderBars(w io.Writer, title string, bars []chart.Value) error {
	if len(bars) == 0 {
		return fmt.Errorf("no data to chart")
	}
	// go-chart requires at least two bars to compute spacing
	if len(bars) == 1 {
		bars = append(bars, chart.Value{Label: "", Value: 0})
	}
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}
	c := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   400,
		BarWidth: 40,
		YAxis:    chart.YAxis{Range: flatRange(values)},
		Bars:     bars,
	}
	if err := c.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// flatRange returns an explicit y range when every value is equal, since the
// renderer cannot scale a zero-height range. Nil otherwise, letting the chart
// derive its own range.
func flatRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min != max {
		return nil
	}
	return &chart.ContinuousRange{Min: min - 1, Max: max + 1}
}

func seriesValues(daily []trend.DayCount) ([]time.Time, []float64) {
	xs := make([]time.Time, len(daily))
	ys := make([]float64, len(daily))
	for i, dc := range daily {
		xs[i] = dc.Day
		ys[i] = float64(dc.Count)
	}
	// A single-point series cannot be drawn; pad with a duplicate so the
	// chart still renders for one-day domains.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}
	return xs, ys
}
