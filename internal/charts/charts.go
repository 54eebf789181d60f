package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ivanoskov/deal_bot/internal/service"
)

// ChartGenerator рисует графики для оператора
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateIntentChart строит столбчатую диаграмму срабатываний намерений.
// Без данных возвращает nil, nil.
func (g *ChartGenerator) GenerateIntentChart(counts []service.IntentCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(counts))
	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d)", c.Intent, c.Count),
			Value: float64(c.Count),
		})
	}

	graph := chart.BarChart{
		Title:      "Messages by intent",
		Width:      200*len(bars) + 200,
		Height:     600,
		BarWidth:   60,
		BarSpacing: 40,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{
			FontSize:  10,
			FontColor: chart.ColorBlack,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  10,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render intent chart: %w", err)
	}
	return buffer.Bytes(), nil
}
