package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-calorie-calc/internal/models"
	"mcp-calorie-calc/internal/nlp"
)

func tok(text string, pos nlp.POS, dep string) nlp.Token {
	return nlp.Token{Text: text, POS: pos, Dep: dep}
}

// scenarioDoc is "I had 1 Chicken Burger, 1 Chicken Fries, and 4 Piece Chicken Nuggets"
// as a dependency parser tags it.
func scenarioDoc() nlp.Doc {
	return nlp.Doc{
		tok("I", nlp.Pron, "nsubj"),
		tok("had", nlp.Verb, "ROOT"),
		tok("1", nlp.Num, "nummod"),
		tok("Chicken", nlp.Propn, "compound"),
		tok("Burger", nlp.Propn, "dobj"),
		tok(",", nlp.Punct, "punct"),
		tok("1", nlp.Num, "nummod"),
		tok("Chicken", nlp.Propn, "compound"),
		tok("Fries", nlp.Propn, "conj"),
		tok(",", nlp.Punct, "punct"),
		tok("and", nlp.CConj, "cc"),
		tok("4", nlp.Num, "nummod"),
		tok("Piece", nlp.Noun, "compound"),
		tok("Chicken", nlp.Propn, "compound"),
		tok("Nuggets", nlp.Propn, "conj"),
	}
}

func staticTagger(doc nlp.Doc) nlp.Tagger {
	return nlp.TaggerFunc(func(context.Context, string) (nlp.Doc, error) {
		return doc, nil
	})
}

func TestFromDoc_Compound(t *testing.T) {
	got := FromDoc(scenarioDoc(), ModeCompound)

	assert.Equal(t, []models.Mention{
		{RawText: "1 Chicken Burger", ItemName: "burger", Quantity: 1},
		{RawText: "1 Chicken Fries", ItemName: "fries", Quantity: 1},
		{RawText: "4 Piece Chicken Nuggets", ItemName: "nuggets", Quantity: 4},
	}, got)
}

func TestFromDoc_Strict(t *testing.T) {
	got := FromDoc(scenarioDoc(), ModeStrict)

	assert.Equal(t, []models.Mention{
		{RawText: "1 Chicken", ItemName: "chicken", Quantity: 1},
		{RawText: "1 Chicken", ItemName: "chicken", Quantity: 1},
		{RawText: "4 Piece", ItemName: "piece", Quantity: 4},
	}, got, "the strict heuristic only looks at the token right after the numeral")
}

func TestFromDoc_DirectObjects(t *testing.T) {
	doc := nlp.Doc{
		tok("I", nlp.Pron, "nsubj"),
		tok("ate", nlp.Verb, "ROOT"),
		tok("a", nlp.Det, "det"),
		tok("Salad", nlp.Noun, "dobj"),
		tok("and", nlp.CConj, "cc"),
		tok("then", nlp.Adv, "advmod"),
		tok("ate", nlp.Verb, "conj"),
		tok("another", nlp.Det, "det"),
		tok("salad", nlp.Noun, "dobj"),
		tok("with", nlp.Adp, "prep"),
		tok("bread", nlp.Noun, "pobj"),
		tok("and", nlp.CConj, "cc"),
		tok("Pepsi", nlp.Propn, "dobj"),
	}

	for _, mode := range []Mode{ModeStrict, ModeCompound} {
		t.Run(string(mode), func(t *testing.T) {
			got := FromDoc(doc, mode)
			assert.Equal(t, []models.Mention{
				{RawText: "Salad", ItemName: "salad", Quantity: 1},
			}, got, "duplicates, non-objects and proper nouns are not captured")
		})
	}
}

func TestFromDoc_ObjectAfterNumeralMention(t *testing.T) {
	doc := nlp.Doc{
		tok("2", nlp.Num, "nummod"),
		tok("tacos", nlp.Noun, "nsubj"),
		tok("and", nlp.CConj, "cc"),
		tok("I", nlp.Pron, "nsubj"),
		tok("ate", nlp.Verb, "ROOT"),
		tok("3", nlp.Num, "nummod"),
		tok("Tacos", nlp.Noun, "dobj"),
	}

	got := FromDoc(doc, ModeStrict)
	assert.Equal(t, []models.Mention{
		{RawText: "2 tacos", ItemName: "tacos", Quantity: 2},
		{RawText: "3 Tacos", ItemName: "tacos", Quantity: 3},
	}, got, "numeral mentions are not deduplicated, the object noun is taken by its numeral")
}

func TestFromDoc_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		doc  nlp.Doc
		mode Mode
		want []models.Mention
	}{
		{
			name: "numeral without noun",
			doc:  nlp.Doc{tok("ate", nlp.Verb, "ROOT"), tok("2", nlp.Num, "dobj"), tok("quickly", nlp.Adv, "advmod")},
			mode: ModeCompound,
		},
		{
			name: "numeral at end",
			doc:  nlp.Doc{tok("burgers", nlp.Noun, "nsubj"), tok("2", nlp.Num, "dep")},
			mode: ModeCompound,
		},
		{
			name: "malformed numeral is skipped",
			doc: nlp.Doc{
				tok("1.5", nlp.Num, "nummod"), tok("pizzas", nlp.Noun, "dep"),
				tok("2", nlp.Num, "nummod"), tok("donuts", nlp.Noun, "dep"),
			},
			mode: ModeCompound,
			want: []models.Mention{{RawText: "2 donuts", ItemName: "donuts", Quantity: 2}},
		},
		{
			name: "zero is not a quantity",
			doc:  nlp.Doc{tok("0", nlp.Num, "nummod"), tok("fries", nlp.Noun, "dobj")},
			mode: ModeCompound,
			want: []models.Mention{{RawText: "fries", ItemName: "fries", Quantity: 1}},
		},
		{
			name: "number word in compound mode",
			doc:  nlp.Doc{tok("Two", nlp.Num, "nummod"), tok("Hot", nlp.Propn, "compound"), tok("Dogs", nlp.Propn, "dobj")},
			mode: ModeCompound,
			want: []models.Mention{{RawText: "Two Hot Dogs", ItemName: "dogs", Quantity: 2}},
		},
		{
			name: "number word in strict mode",
			doc:  nlp.Doc{tok("two", nlp.Num, "nummod"), tok("tacos", nlp.Noun, "dep")},
			mode: ModeStrict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromDoc(tt.doc, tt.mode))
		})
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	called := false
	tagger := nlp.TaggerFunc(func(context.Context, string) (nlp.Doc, error) {
		called = true
		return nil, nil
	})
	e := New(tagger, ModeCompound)

	for _, text := range []string{"", "   \n\t"} {
		got, err := e.Extract(context.Background(), text)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.False(t, called)
}

func TestExtract_Deterministic(t *testing.T) {
	e := New(staticTagger(scenarioDoc()), "")
	assert.Equal(t, ModeCompound, e.Mode())

	first, err := e.Extract(context.Background(), "I had 1 Chicken Burger")
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), "I had 1 Chicken Burger")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_TaggerError(t *testing.T) {
	e := New(nlp.TaggerFunc(func(context.Context, string) (nlp.Doc, error) {
		return nil, nlp.ErrTagger
	}), ModeStrict)

	_, err := e.Extract(context.Background(), "2 tacos")
	assert.True(t, errors.Is(err, nlp.ErrTagger))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeCompound, m)

	m, err = ParseMode(" STRICT ")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	_, err = ParseMode("greedy")
	assert.Error(t, err)
}
