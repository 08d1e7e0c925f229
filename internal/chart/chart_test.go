package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytemotion/internal/model"
)

func TestCountEmotions(t *testing.T) {
	counts := CountEmotions([]string{"joy", "anger", "joy", "sadness", "anger", "joy", "fear"})

	assert.Equal(t, []model.EmotionCount{
		{Emotion: "joy", Count: 3},
		{Emotion: "anger", Count: 2},
		{Emotion: "fear", Count: 1},
		{Emotion: "sadness", Count: 1},
	}, counts)

	assert.Empty(t, CountEmotions(nil))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, DefaultTitle, Title(""))
	assert.Equal(t, "Emotions in comments for: My video", Title("My video"))
}

func TestRenderer(t *testing.T) {
	r := NewRenderer(0, 0)
	counts := []model.EmotionCount{{Emotion: "joy", Count: 4}, {Emotion: "anger", Count: 1}}

	for _, ct := range []model.ChartType{model.ChartBar, model.ChartPie} {
		t.Run(string(ct), func(t *testing.T) {
			data, err := r.Render(ct, counts, "")
			require.NoError(t, err)

			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 1000, cfg.Width)
			assert.Equal(t, 600, cfg.Height)
		})
	}
}

func TestRenderer_SingleEmotion(t *testing.T) {
	r := NewRenderer(400, 300)
	counts := []model.EmotionCount{{Emotion: "joy", Count: 2}}

	_, err := r.Bar(counts, "one")
	require.NoError(t, err)
	_, err = r.Pie(counts, "one")
	require.NoError(t, err)
}

func TestRenderer_NoData(t *testing.T) {
	r := NewRenderer(400, 300)

	_, err := r.Bar(nil, "")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.Pie([]model.EmotionCount{}, "")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.Pie([]model.EmotionCount{{Emotion: "joy", Count: 0}}, "")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 120, barWidth(1000, 1))
	assert.Equal(t, 71, barWidth(1000, 7))
	assert.Equal(t, 10, barWidth(100, 20))
}
