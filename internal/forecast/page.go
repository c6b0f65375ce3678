package forecast

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// SeriesPage writes an HTML page plotting the raw forecast series, for
// comparing against the rendered watch frame.
func SeriesPage(w io.Writer, startHour int, samples []Sample) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Forecast series",
			Theme:     types.ThemeWesteros,
			Width:     "800px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Forecast series",
			Subtitle: fmt.Sprintf("%d entries from %02d:00", len(samples), startHour),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	hours := make([]string, len(samples))
	temps := make([]opts.LineData, len(samples))
	precips := make([]opts.LineData, len(samples))
	for i, s := range samples {
		hours[i] = strconv.Itoa((startHour + i) % 24)
		temps[i] = opts.LineData{Value: s.Temperature}
		precips[i] = opts.LineData{Value: s.Precipitation}
	}

	line.SetXAxis(hours).
		AddSeries("Temperature", temps).
		AddSeries("Precipitation %", precips, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.3}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render series page: %w", err)
	}
	return nil
}
