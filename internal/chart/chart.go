// Package chart aggregates emotion labels and renders their distribution as PNG charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	gochart "github.com/wcharczuk/go-chart/v2"

	"ytemotion/internal/model"
)

// DefaultTitle is used when the video title is unknown.
const DefaultTitle = "Emotion Distribution in Comments"

var ErrNoData = errors.New("no emotions to chart")

// CountEmotions tallies labels, most frequent first. Ties are ordered by label.
func CountEmotions(emotions []string) []model.EmotionCount {
	tally := make(map[string]int)
	for _, e := range emotions {
		tally[e]++
	}

	counts := make([]model.EmotionCount, 0, len(tally))
	for e, n := range tally {
		counts = append(counts, model.EmotionCount{Emotion: e, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Emotion < counts[j].Emotion
	})
	return counts
}

// Title returns the chart title for a video.
func Title(videoTitle string) string {
	if videoTitle == "" {
		return DefaultTitle
	}
	return "Emotions in comments for: " + videoTitle
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

// NewRenderer returns a Renderer. Non-positive sizes fall back to 1000x600.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 600
	}
	return &Renderer{width: width, height: height}
}

// Render draws counts with the given chart type.
func (r *Renderer) Render(ct model.ChartType, counts []model.EmotionCount, title string) ([]byte, error) {
	if ct == model.ChartPie {
		return r.Pie(counts, title)
	}
	return r.Bar(counts, title)
}

// Bar draws one bar per emotion labeled with its count.
func (r *Renderer) Bar(counts []model.EmotionCount, title string) ([]byte, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	if title == "" {
		title = DefaultTitle
	}

	bars := make([]gochart.Value, 0, len(counts))
	top := 0
	for _, c := range counts {
		bars = append(bars, gochart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s (%d)", c.Emotion, c.Count),
		})
		if c.Count > top {
			top = c.Count
		}
	}

	graph := gochart.BarChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		BarWidth: barWidth(r.width, len(bars)),
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(top)},
		},
		Bars: bars,
	}
	return render(graph.Render)
}

// Pie draws one slice per emotion labeled with its share.
func (r *Renderer) Pie(counts []model.EmotionCount, title string) ([]byte, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	if title == "" {
		title = DefaultTitle
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return nil, ErrNoData
	}

	values := make([]gochart.Value, 0, len(counts))
	for _, c := range counts {
		values = append(values, gochart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s (%.1f%%)", c.Emotion, float64(c.Count)*100/float64(total)),
		})
	}

	graph := gochart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	return render(graph.Render)
}

func render(fn func(gochart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barWidth(width, n int) int {
	w := width / (2 * n)
	if w > 120 {
		w = 120
	}
	if w < 10 {
		w = 10
	}
	return w
}
