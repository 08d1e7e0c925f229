package nlp

import (
	"bufio"
	"embed"
	"regexp"
	"strings"
	"unicode"
)

//go:embed stopwords/*.txt
var stopwordFiles embed.FS

var (
	urlRE = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagRE = regexp.MustCompile(`<.*?>`)
)

// Preprocessor normalizes comment text before classification.
type Preprocessor struct {
	language  string
	stopwords map[string]struct{}
}

// NewPreprocessor returns a Preprocessor for the language. Languages without a
// bundled stopword list get no stopword filtering.
func NewPreprocessor(language string) *Preprocessor {
	language = strings.ToLower(strings.TrimSpace(language))
	return &Preprocessor{language: language, stopwords: loadStopwords(language)}
}

// Language returns the configured language name.
func (p *Preprocessor) Language() string {
	return p.language
}

// Preprocess lowercases text, strips URLs, HTML tags, punctuation and digits,
// then drops stopwords. Tokens are joined by single spaces.
func (p *Preprocessor) Preprocess(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlRE.ReplaceAllString(text, "")
	text = tagRE.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return -1
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_', unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, text)

	tokens := strings.Fields(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := p.stopwords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func loadStopwords(language string) map[string]struct{} {
	set := make(map[string]struct{})
	f, err := stopwordFiles.Open("stopwords/" + language + ".txt")
	if err != nil {
		return set
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
