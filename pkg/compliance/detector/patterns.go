package detector

import (
	"regexp"
	"sort"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/conversation"
)

const (
	// baseConfidence is the confidence assigned to a single pattern match.
	baseConfidence = 0.90

	// confidenceStep is added per corroborating match beyond the first.
	confidenceStep = 0.02
)

// pattern pairs a stable id with a compiled expression. Pattern ids feed
// the deterministic signal ordering, so they must be unique per detector.
type pattern struct {
	id string
	re *regexp.Regexp
}

// compilePatterns compiles a pattern table and returns the patterns sorted
// by id so match iteration order is stable.
func compilePatterns(raw map[string]string) []pattern {
	patterns := make([]pattern, 0, len(raw))
	for id, expr := range raw {
		patterns = append(patterns, pattern{id: id, re: regexp.MustCompile(expr)})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].id < patterns[j].id })
	return patterns
}

// confidenceFor scores matches matches: base plus a small increment per
// extra corroborating match, capped at 1.0.
func confidenceFor(matches int) float64 {
	if matches <= 0 {
		return 0
	}
	c := baseConfidence + confidenceStep*float64(matches-1)
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// phraseDetector is the shared shape of most detectors: a role filter, one
// signal type, and a pattern table. It emits at most one signal per message;
// additional matches in the same message raise confidence instead of
// producing duplicates.
type phraseDetector struct {
	id       string
	signal   compliance.SignalType
	roles    map[conversation.Role]bool
	patterns []pattern
}

// ID returns the detector id.
func (d *phraseDetector) ID() string { return d.id }

// Detect scans each message authored by one of the detector's roles.
func (d *phraseDetector) Detect(conv *conversation.Conversation) []compliance.Signal {
	var signals []compliance.Signal
	for i := 0; i < conv.Len(); i++ {
		msg := conv.Message(i)
		if !d.roles[msg.Role] {
			continue
		}

		matches := 0
		firstPattern := ""
		trigger := ""
		for _, p := range d.patterns {
			m := p.re.FindString(msg.Content)
			if m == "" {
				continue
			}
			matches++
			if firstPattern == "" {
				firstPattern = p.id
				trigger = m
			}
		}
		if matches == 0 {
			continue
		}

		signals = append(signals, compliance.Signal{
			Type:         d.signal,
			Confidence:   confidenceFor(matches),
			TriggerText:  trigger,
			PatternID:    firstPattern,
			MessageIndex: i,
			DetectorID:   d.id,
		})
	}
	return signals
}

func roleSet(roles ...conversation.Role) map[conversation.Role]bool {
	set := make(map[conversation.Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}
