package domain

import "regexp"

// EditIntent names what an automated edit is trying to achieve. Intents
// drive the retrieval prefilter and the canned ranking query.
type EditIntent string

const (
	// IntentReduceAdverbs targets blocks heavy with -ly adverbs.
	IntentReduceAdverbs EditIntent = "reduce-adverbs"

	// IntentFixPassiveVoice targets auxiliary-verb + participle prose.
	IntentFixPassiveVoice EditIntent = "fix-passive-voice"

	// IntentTightenProse targets hedge and filler words.
	IntentTightenProse EditIntent = "tighten-prose"

	// IntentRemoveFiller targets a fixed list of filler words.
	IntentRemoveFiller EditIntent = "remove-filler"

	// IntentExpand asks for elaboration; no prefilter.
	IntentExpand EditIntent = "expand"

	// IntentSimplify asks for plainer language; no prefilter.
	IntentSimplify EditIntent = "simplify"

	// IntentFixGrammar asks for grammatical cleanup; no prefilter.
	IntentFixGrammar EditIntent = "fix-grammar"

	// IntentCustom carries a free-text instruction; no prefilter.
	IntentCustom EditIntent = "custom"
)

// Valid reports whether the intent is a known variant.
func (in EditIntent) Valid() bool {
	switch in {
	case IntentReduceAdverbs, IntentFixPassiveVoice, IntentTightenProse,
		IntentRemoveFiller, IntentExpand, IntentSimplify,
		IntentFixGrammar, IntentCustom:
		return true
	}
	return false
}

// Prefilter patterns. Cheap and intent-specific; ranking via the search
// index only runs when a prefilter still leaves too many candidates.
var (
	adverbPattern  = regexp.MustCompile(`\b\w+ly\b`)
	passivePattern = regexp.MustCompile(`\b(?:is|are|was|were|be|been|being)\s+\w+(?:ed|en)\b`)
	fillerPattern  = regexp.MustCompile(`(?i)\b(?:just|really|very|quite|rather|somewhat|perhaps|maybe|actually|basically|simply|definitely|certainly)\b`)
)

// Pattern returns the regex prefilter for the intent, or nil when the
// intent keeps all blocks as candidates (expand, simplify, fix-grammar,
// custom).
func (in EditIntent) Pattern() *regexp.Regexp {
	switch in {
	case IntentReduceAdverbs:
		return adverbPattern
	case IntentFixPassiveVoice:
		return passivePattern
	case IntentTightenProse, IntentRemoveFiller:
		return fillerPattern
	default:
		return nil
	}
}

// RankQuery returns the canned search query used to rank candidates
// when no user-supplied query is given.
func (in EditIntent) RankQuery() string {
	switch in {
	case IntentReduceAdverbs:
		return "adverbs modifiers quickly slowly suddenly"
	case IntentFixPassiveVoice:
		return "was were being passive construction"
	case IntentTightenProse:
		return "wordy filler hedge redundant"
	case IntentRemoveFiller:
		return "just really very actually basically"
	case IntentExpand:
		return "sparse underdeveloped brief"
	case IntentSimplify:
		return "complex convoluted dense"
	case IntentFixGrammar:
		return "grammar agreement tense punctuation"
	default:
		return ""
	}
}
