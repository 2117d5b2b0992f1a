package report

import (
	"fmt"
	"os"

	"hrambacktest/internal/domain"

	"github.com/vicanso/go-charts/v2"
)

// RenderChart draws the strategy and benchmark value series as a line
// chart PNG.
func RenderChart(result domain.SimulationResult, title string) ([]byte, error) {
	if len(result.Samples) == 0 {
		return nil, fmt.Errorf("cannot render chart of empty result")
	}

	strategy := result.PortfolioValues()
	benchmark := result.BenchmarkValues()

	xLabels := make([]string, len(result.Samples))
	for i, sample := range result.Samples {
		if len(result.Samples) <= 60 {
			xLabels[i] = sample.Date.Format("Jan 02")
		} else {
			xLabels[i] = sample.Date.Format("Jan '06")
		}
	}

	minVal, maxVal := strategy[0], strategy[0]
	for _, series := range [][]float64{strategy, benchmark} {
		for _, v := range series {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	p, err := charts.LineRender(
		[][]float64{strategy, benchmark},
		charts.TitleTextOptionFunc(title),
		charts.LegendLabelsOptionFunc([]string{"HRAM (Net)", "Buy & Hold"}),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	return buf, nil
}

func WriteChartFile(result domain.SimulationResult, title, path string) error {
	buf, err := RenderChart(result, title)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write chart file %s: %w", path, err)
	}
	return nil
}
