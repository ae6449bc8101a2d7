package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseTagger tags text in-process with the prose averaged-perceptron tagger
// and derives dependency labels from the tags. The perceptron model is loaded
// once and shared read-only by every call.
type ProseTagger struct {
	model *prose.Model
}

func NewProseTagger() *ProseTagger {
	p := &ProseTagger{}
	if doc, err := prose.NewDocument("warm up", proseOpts()...); err == nil {
		p.model = doc.Model
	}
	return p
}

func proseOpts() []prose.DocOpt {
	return []prose.DocOpt{
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	}
}

func (p *ProseTagger) Tag(ctx context.Context, text string) (Doc, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := proseOpts()
	if p.model != nil {
		opts = append(opts, prose.UsingModel(p.model))
	}
	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTagger, err)
	}

	return fromPenn(doc.Tokens()), nil
}

func fromPenn(toks []prose.Token) Doc {
	in := make([]tagged, len(toks))
	for i, t := range toks {
		in[i] = tagged{pos: pennToUniversal(t.Tag), fine: t.Tag}
	}
	deps := labelDependencies(in)

	out := make(Doc, len(toks))
	for i, t := range toks {
		out[i] = Token{Text: t.Text, POS: in[i].pos, Dep: deps[i]}
	}
	return out
}
