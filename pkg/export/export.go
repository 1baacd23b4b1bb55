package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/effectwarp/core/model"
	"github.com/kilianp07/effectwarp/core/timeline"
)

var csvHeader = []string{
	"time", "iob", "insulin_activity", "insulin_rate", "effective_elapsed_s",
	"cob", "carbs_absorbed", "carb_rate", "carbs_suspended", "override",
}

// WriteJSON writes the samples to w as a JSON array.
func WriteJSON(w io.Writer, samples []model.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(samples)
}

// WriteCSV writes the samples to w in CSV format with a header row.
func WriteCSV(w io.Writer, samples []model.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{
			s.Time.Format(time.RFC3339),
			formatFloat(s.InsulinOnBoard),
			formatFloat(s.InsulinActivity),
			formatFloat(s.InsulinRate),
			formatFloat(s.EffectiveElapsed.Seconds()),
			formatFloat(s.CarbsOnBoard),
			formatFloat(s.CarbsAbsorbed),
			formatFloat(s.CarbRate),
			strconv.FormatBool(s.CarbsSuspended),
			s.Override,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChartHTML renders insulin and carbohydrate series as an HTML line chart.
func WriteChartHTML(w io.Writer, title string, samples []model.Sample) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "U, U/h, g, g/h"}),
	)

	xAxis := make([]string, 0, len(samples))
	iob := make([]opts.LineData, 0, len(samples))
	activity := make([]opts.LineData, 0, len(samples))
	cob := make([]opts.LineData, 0, len(samples))
	carbRate := make([]opts.LineData, 0, len(samples))
	for _, s := range samples {
		xAxis = append(xAxis, s.Time.Format("2006-01-02 15:04"))
		iob = append(iob, opts.LineData{Value: round(s.InsulinOnBoard)})
		activity = append(activity, opts.LineData{Value: round(s.InsulinActivity)})
		cob = append(cob, opts.LineData{Value: round(s.CarbsOnBoard)})
		carbRate = append(carbRate, opts.LineData{Value: round(s.CarbRate)})
	}

	line.SetXAxis(xAxis).
		AddSeries("Insulin on board", iob).
		AddSeries("Insulin activity", activity).
		AddSeries("Carbs on board", cob).
		AddSeries("Carb absorption rate", carbRate)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// WriteTimeline writes the rated partition as one line per span.
func WriteTimeline(w io.Writer, parts []timeline.RatedPeriod) error {
	for _, p := range parts {
		if _, err := fmt.Fprintf(w, "%s\t%s\tx%g\t%s\n",
			p.Interval.Start().Format(time.RFC3339),
			p.Interval.End().Format(time.RFC3339),
			p.Rate,
			p.Effective(),
		); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "effective\t%s\n", timeline.EffectiveDuration(parts))
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 3, 64), 64)
	return v
}
