package nlp

// tagged is a token as seen by the labeler: its universal tag plus the
// fine-grained tag it came from.
type tagged struct {
	pos  POS
	fine string
}

// labelDependencies assigns shallow dependency labels from part-of-speech
// tags alone. The noun phrase right after a verb is its direct object: the
// last noun of that phrase is labeled dobj, earlier nouns compound. Further
// noun phrases listed after it with commas or "and"/"or" are labeled conj.
func labelDependencies(toks []tagged) []string {
	deps := make([]string, len(toks))
	rootSeen := false

	for i := 0; i < len(toks); i++ {
		if deps[i] != "" {
			continue
		}
		switch toks[i].pos {
		case Verb:
			if !rootSeen {
				deps[i] = DepRoot
				rootSeen = true
			} else {
				deps[i] = DepUnknown
			}
			next, ok := labelPhrase(toks, deps, i+1, DepDirectObject)
			for ok {
				next, ok = skipSeparator(toks, deps, next)
				if !ok {
					break
				}
				next, ok = labelPhrase(toks, deps, next, DepConj)
			}
		case Pron, Noun, Propn:
			if !rootSeen {
				deps[i] = DepSubject
			} else {
				deps[i] = DepUnknown
			}
		case Punct:
			deps[i] = DepPunct
		case CConj:
			deps[i] = DepCC
		case Adp:
			deps[i] = DepPrep
		default:
			deps[i] = DepUnknown
		}
	}
	return deps
}

// skipSeparator labels a list separator (",", "and", ", and") at i and
// returns the index after it.
func skipSeparator(toks []tagged, deps []string, i int) (int, bool) {
	found := false
	for i < len(toks) {
		switch {
		case toks[i].fine == ",":
			deps[i] = DepPunct
		case toks[i].pos == CConj:
			deps[i] = DepCC
		default:
			return i, found
		}
		found = true
		i++
	}
	return i, false
}

// labelPhrase labels the noun phrase starting at start, giving its head noun
// the label head. It returns the index after the head and whether a noun was
// found.
func labelPhrase(toks []tagged, deps []string, start int, head string) (int, bool) {
	end := start
	for end < len(toks) && inNounPhrase(toks[end]) {
		end++
	}

	last := -1
	for j := start; j < end; j++ {
		if toks[j].pos == Noun || toks[j].pos == Propn {
			last = j
		}
	}
	if last < 0 {
		return start, false
	}

	for j := start; j <= last; j++ {
		switch {
		case j == last:
			deps[j] = head
		case toks[j].pos == Noun || toks[j].pos == Propn:
			deps[j] = DepCompound
		case toks[j].pos == Num:
			deps[j] = DepNumMod
		case toks[j].pos == Adj:
			deps[j] = DepAmod
		default:
			deps[j] = DepDet
		}
	}
	return last + 1, true
}

func inNounPhrase(t tagged) bool {
	switch t.pos {
	case Det, Adj, Num, Noun, Propn:
		return true
	case Pron:
		return t.fine == "PRP$"
	default:
		return false
	}
}
