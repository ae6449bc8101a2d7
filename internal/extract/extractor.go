// Package extract pulls (food item, quantity) mentions out of tagged meal text.
package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mcp-calorie-calc/internal/models"
	"mcp-calorie-calc/internal/nlp"
)

// Mode selects the extraction heuristic.
type Mode string

const (
	// ModeStrict takes exactly the noun right after a numeral and direct-object nouns.
	ModeStrict Mode = "strict"
	// ModeCompound extends a numeral's noun to the end of its noun run and
	// understands spelled-out numbers.
	ModeCompound Mode = "compound"
)

// ParseMode returns the mode named by s; empty means compound.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCompound:
		return ModeCompound, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q", s)
	}
}

//nolint:gochecknoglobals // static lookup table
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

type Extractor struct {
	tagger nlp.Tagger
	mode   Mode
}

func New(tagger nlp.Tagger, mode Mode) *Extractor {
	if mode == "" {
		mode = ModeCompound
	}
	return &Extractor{tagger: tagger, mode: mode}
}

func (e *Extractor) Mode() Mode {
	return e.mode
}

// Extract tags text and returns its mentions in token order. Blank text gives
// no mentions and no error; only a tagger failure is returned as an error.
func (e *Extractor) Extract(ctx context.Context, text string) ([]models.Mention, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := e.tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to tag text: %w", err)
	}
	return FromDoc(doc, e.mode), nil
}

// FromDoc runs the mention heuristic over already tagged tokens:
//
//   - a numeral immediately followed by a noun or proper noun yields that noun
//     with the numeral as quantity;
//   - a common noun in direct-object position yields quantity 1, unless the
//     token was already taken by a numeral or its lowercased text was already
//     emitted.
//
// Numerals that do not parse to a positive integer are skipped.
func FromDoc(doc nlp.Doc, mode Mode) []models.Mention {
	var mentions []models.Mention
	emitted := make(map[string]struct{})
	taken := make(map[int]struct{})

	for i, tok := range doc {
		switch {
		case tok.POS == nlp.Num:
			qty, ok := parseQuantity(tok.Text, mode)
			if !ok {
				continue
			}
			next, ok := doc.Nbor(i, 1)
			if !ok || !isNoun(next.POS) {
				continue
			}
			head := i + 1
			if mode == ModeCompound {
				for j := head + 1; j < len(doc) && isNoun(doc[j].POS); j++ {
					head = j
				}
			}
			name := strings.ToLower(doc[head].Text)
			mentions = append(mentions, models.Mention{
				RawText:  joinText(doc[i : head+1]),
				ItemName: name,
				Quantity: qty,
			})
			emitted[name] = struct{}{}
			for j := i + 1; j <= head; j++ {
				taken[j] = struct{}{}
			}

		case tok.POS == nlp.Noun && tok.Dep == nlp.DepDirectObject:
			if _, ok := taken[i]; ok {
				continue
			}
			name := strings.ToLower(tok.Text)
			if _, dup := emitted[name]; dup {
				continue
			}
			mentions = append(mentions, models.Mention{
				RawText:  tok.Text,
				ItemName: name,
				Quantity: 1,
			})
			emitted[name] = struct{}{}
		}
	}
	return mentions
}

func isNoun(p nlp.POS) bool {
	return p == nlp.Noun || p == nlp.Propn
}

func parseQuantity(text string, mode Mode) (int, bool) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		if mode != ModeCompound {
			return 0, false
		}
		w, ok := numberWords[strings.ToLower(text)]
		if !ok {
			return 0, false
		}
		n = w
	}
	return n, n > 0
}

func joinText(toks nlp.Doc) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
