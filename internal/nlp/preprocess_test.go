package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessor_Spanish(t *testing.T) {
	p := NewPreprocessor("spanish")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"stopwords dropped", "Me encanta la canción de este video", "encanta canción video"},
		{"urls removed", "Mira esto https://example.com/x?y=1 y www.foo.org genial", "mira genial"},
		{"html removed", "<b>Hermoso</b> <a href=\"x\">trabajo</a>", "hermoso trabajo"},
		{"punctuation and digits", "¡¡Increíble!! 10/10, lo mejor de 2024...", "increíble mejor"},
		{"emoji dropped", "qué risa 😂😂", "risa"},
		{"underscore kept", "snake_case rocks", "snake_case rocks"},
		{"only noise", "123 !!! ...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Preprocess(tt.in))
		})
	}
}

func TestPreprocessor_English(t *testing.T) {
	p := NewPreprocessor(" English ")
	assert.Equal(t, "english", p.Language())
	assert.Equal(t, "love song much", p.Preprocess("I love this song SO much!"))
}

func TestPreprocessor_UnknownLanguage(t *testing.T) {
	p := NewPreprocessor("klingon")
	assert.Equal(t, "the cat is here", p.Preprocess("The cat, is here."))
}

func TestLoadStopwords(t *testing.T) {
	es := loadStopwords("spanish")
	assert.Len(t, es, 313)
	assert.Contains(t, es, "que")

	en := loadStopwords("english")
	assert.Len(t, en, 179)
	assert.Contains(t, en, "the")

	assert.Empty(t, loadStopwords("../spanish"))
}
