package charts

import (
	"fmt"

	"forecastchart/internal/display"
)

// DataSource supplies the forecast the chart plots. Series calls fill dst,
// which must have exactly SampleCount elements.
type DataSource interface {
	SampleCount() int
	StartHour() int
	TemperatureSeries(dst []int16) error
	PrecipitationSeries(dst []uint8) error
}

// SeriesSnapshotter is implemented by sources that can hand out the start
// hour and both series in one consistent read.
type SeriesSnapshotter interface {
	SeriesSnapshot() (startHour int, temps []int16, precips []uint8)
}

// Host is the layer system the chart attaches to.
type Host interface {
	CreateLayer(frame display.Rect) (*display.Layer, error)
	AddChild(parent, child *display.Layer)
	SetUpdateProc(l *display.Layer, fn display.UpdateProc)
	MarkDirty(l *display.Layer)
	DestroyLayer(l *display.Layer)
}

// readSeries copies the current forecast out of src into fresh buffers.
func readSeries(src DataSource) (temps []int16, precips []uint8, startHour int, err error) {
	if snap, ok := src.(SeriesSnapshotter); ok {
		startHour, temps, precips = snap.SeriesSnapshot()
		if len(temps) < MinSamples {
			return nil, nil, 0, fmt.Errorf("%w: have %d", ErrTooFewSamples, len(temps))
		}
		return temps, precips, startHour, nil
	}

	n := src.SampleCount()
	if n < MinSamples {
		return nil, nil, 0, fmt.Errorf("%w: have %d", ErrTooFewSamples, n)
	}
	temps = make([]int16, n)
	precips = make([]uint8, n)
	if err := src.TemperatureSeries(temps); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read temperatures: %w", err)
	}
	if err := src.PrecipitationSeries(precips); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read precipitation: %w", err)
	}
	return temps, precips, src.StartHour(), nil
}
