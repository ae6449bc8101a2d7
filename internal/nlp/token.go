// Package nlp defines the tagged-token contract consumed by the extractor and
// the taggers that produce it.
package nlp

import (
	"context"
	"errors"
	"strings"
)

// ErrTagger wraps every failure of a tagger backend.
var ErrTagger = errors.New("tagger failed")

// POS is a coarse, universal part-of-speech tag.
type POS string

const (
	Adj   POS = "ADJ"
	Adp   POS = "ADP"
	Adv   POS = "ADV"
	Aux   POS = "AUX"
	CConj POS = "CCONJ"
	Det   POS = "DET"
	Noun  POS = "NOUN"
	Num   POS = "NUM"
	Part  POS = "PART"
	Pron  POS = "PRON"
	Propn POS = "PROPN"
	Punct POS = "PUNCT"
	Verb  POS = "VERB"
	Other POS = "X"
)

// Dependency labels produced by the built-in labeler.
const (
	DepDirectObject = "dobj"
	DepCompound     = "compound"
	DepNumMod       = "nummod"
	DepDet          = "det"
	DepAmod         = "amod"
	DepConj         = "conj"
	DepCC           = "cc"
	DepPrep         = "prep"
	DepSubject      = "nsubj"
	DepPunct        = "punct"
	DepRoot         = "ROOT"
	DepUnknown      = "dep"
)

// Token is one tagged word.
type Token struct {
	Text string `json:"text"`
	POS  POS    `json:"pos"`
	Dep  string `json:"dep"`
}

// Doc is a tagged text in token order.
type Doc []Token

// Nbor returns the token at offset from position i.
func (d Doc) Nbor(i, offset int) (Token, bool) {
	j := i + offset
	if j < 0 || j >= len(d) {
		return Token{}, false
	}
	return d[j], true
}

// Tagger splits text into tokens carrying part of speech and dependency role.
type Tagger interface {
	Tag(ctx context.Context, text string) (Doc, error)
}

// TaggerFunc adapts a plain function to Tagger.
type TaggerFunc func(ctx context.Context, text string) (Doc, error)

func (f TaggerFunc) Tag(ctx context.Context, text string) (Doc, error) {
	return f(ctx, text)
}

var universal = map[POS]struct{}{
	Adj: {}, Adp: {}, Adv: {}, Aux: {}, CConj: {}, Det: {}, Noun: {}, Num: {},
	Part: {}, Pron: {}, Propn: {}, Punct: {}, Verb: {}, Other: {},
	"SCONJ": {}, "INTJ": {}, "SYM": {}, "SPACE": {},
}

// NormalizePOS accepts either a universal tag or a Penn Treebank tag and
// returns the universal one.
func NormalizePOS(tag string) POS {
	t := strings.ToUpper(strings.TrimSpace(tag))
	if _, ok := universal[POS(t)]; ok {
		return POS(t)
	}
	return pennToUniversal(t)
}

func pennToUniversal(tag string) POS {
	switch tag {
	case "CD":
		return Num
	case "NN", "NNS":
		return Noun
	case "NNP", "NNPS":
		return Propn
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return Verb
	case "MD":
		return Aux
	case "JJ", "JJR", "JJS":
		return Adj
	case "RB", "RBR", "RBS", "WRB":
		return Adv
	case "DT", "PDT", "WDT":
		return Det
	case "PRP", "PRP$", "WP", "WP$", "EX":
		return Pron
	case "IN":
		return Adp
	case "CC":
		return CConj
	case "RP", "TO", "POS":
		return Part
	case ",", ".", ":", "``", "''", "(", ")", "-LRB-", "-RRB-", "#", "$", "HYPH", "NFP":
		return Punct
	default:
		return Other
	}
}

// NormalizeDep lowercases a dependency label and maps Universal Dependencies
// names onto the ones the extractor matches ("obj" is "dobj", "root" is "ROOT").
func NormalizeDep(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch l {
	case "obj":
		return DepDirectObject
	case "root":
		return DepRoot
	default:
		return l
	}
}
