package nlp

import (
	"context"
	"sort"
	"strings"

	"ytemotion/internal/model"
)

// EmotionOthers is the label the lexicon classifier uses when no cue word matches.
const EmotionOthers = "others"

var lexiconLabels = []string{"joy", "sadness", "anger", "fear", "surprise", "disgust", EmotionOthers}

var lexicon = map[string]string{
	// joy
	"love": "joy", "loved": "joy", "great": "joy", "amazing": "joy", "awesome": "joy",
	"happy": "joy", "beautiful": "joy", "best": "joy", "nice": "joy", "fun": "joy",
	"funny": "joy", "lol": "joy", "thanks": "joy", "thank": "joy", "excellent": "joy",
	"encanta": "joy", "amo": "joy", "genial": "joy", "feliz": "joy", "hermoso": "joy",
	"hermosa": "joy", "mejor": "joy", "gracias": "joy", "excelente": "joy", "bonito": "joy",
	"increíble": "joy", "risa": "joy", "divertido": "joy", "alegría": "joy",
	// sadness
	"sad": "sadness", "cry": "sadness", "crying": "sadness", "miss": "sadness",
	"lonely": "sadness", "sorry": "sadness", "tears": "sadness", "depressing": "sadness",
	"triste": "sadness", "llorar": "sadness", "lloré": "sadness", "extraño": "sadness",
	"tristeza": "sadness", "lágrimas": "sadness", "pena": "sadness", "solo": "sadness",
	// anger
	"hate": "anger", "angry": "anger", "stupid": "anger", "worst": "anger", "annoying": "anger",
	"mad": "anger", "furious": "anger", "idiot": "anger",
	"odio": "anger", "enojo": "anger", "rabia": "anger", "estúpido": "anger", "peor": "anger",
	"molesto": "anger", "idiota": "anger", "furioso": "anger",
	// fear
	"scary": "fear", "afraid": "fear", "scared": "fear", "fear": "fear", "terrifying": "fear",
	"worried": "fear", "creepy": "fear",
	"miedo": "fear", "terror": "fear", "asustado": "fear", "aterrador": "fear", "preocupado": "fear",
	// surprise
	"wow": "surprise", "omg": "surprise", "unexpected": "surprise", "surprised": "surprise",
	"shocked": "surprise", "unbelievable": "surprise",
	"sorpresa": "surprise", "sorprendente": "surprise", "guau": "surprise", "inesperado": "surprise",
	// disgust
	"gross": "disgust", "disgusting": "disgust", "ew": "disgust", "nasty": "disgust", "cringe": "disgust",
	"asco": "disgust", "asqueroso": "disgust", "repugnante": "disgust", "vergüenza": "disgust",
}

// LexiconClassifier scores text by counting emotion cue words. It needs no
// network access and serves as the classifier when no inference token is set.
type LexiconClassifier struct{}

// NewLexiconClassifier returns a LexiconClassifier.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{}
}

// Classify returns a score per label, highest first. Scores sum to 1.
func (LexiconClassifier) Classify(ctx context.Context, text string) ([]model.EmotionScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(lexiconLabels))
	total := 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?¡¿\"'()")
		if label, ok := lexicon[tok]; ok {
			counts[label]++
			total++
		}
	}
	if total == 0 {
		counts[EmotionOthers] = 1
		total = 1
	}

	scores := make([]model.EmotionScore, 0, len(lexiconLabels))
	for _, label := range lexiconLabels {
		scores = append(scores, model.EmotionScore{Emotion: label, Score: float64(counts[label]) / float64(total)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores, nil
}
