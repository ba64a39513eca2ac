package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how the pattern list is interpreted.
type Mode int

const (
	// Exact treats every pattern as a literal database name; the list is a
	// deny-list.
	Exact Mode = iota
	// Regex treats every pattern as a regular expression, optionally negated
	// with a leading NegateMarker.
	Regex
)

// NegateMarker prefixes a regex pattern whose match excludes a name.
const NegateMarker = ":"

// Decision is the outcome of matching one name against the pattern list.
type Decision int

const (
	// NoMatch means no pattern matched; the mode default applies.
	NoMatch Decision = iota
	Include
	Exclude
)

type pattern struct {
	raw    string
	negate bool
	re     *regexp.Regexp
}

// List is an ordered, immutable pattern list. Build one with Compile.
type List struct {
	mode        Mode
	patterns    []pattern
	hasPositive bool
}

// Compile parses the pattern list once, up front, so that a bad regular
// expression surfaces as a usage error before anything is dumped.
func Compile(mode Mode, patterns []string) (*List, error) {
	l := &List{mode: mode}
	for _, p := range patterns {
		switch mode {
		case Exact:
			l.patterns = append(l.patterns, pattern{raw: p})
		case Regex:
			negate := strings.HasPrefix(p, NegateMarker)
			re, err := regexp.Compile(strings.TrimPrefix(p, NegateMarker))
			if err != nil {
				return nil, fmt.Errorf("invalid pattern '%s': %v", p, err)
			}
			l.patterns = append(l.patterns, pattern{raw: p, negate: negate, re: re})
			if !negate {
				l.hasPositive = true
			}
		default:
			return nil, fmt.Errorf("unknown filter mode %d", mode)
		}
	}
	return l, nil
}

// Len returns the number of patterns in the list.
func (l *List) Len() int {
	return len(l.patterns)
}

// Match returns the decision of the first pattern that matches name, in
// list order. Later patterns are never consulted once one matches, so the
// position of a pattern matters more than its specificity: with patterns
// ["^my", ":^mysql$"] the name "mysql" is included, because "^my" matches
// first.
func (l *List) Match(name string) Decision {
	for _, p := range l.patterns {
		switch l.mode {
		case Exact:
			if name == p.raw {
				return Exclude
			}
		case Regex:
			if p.re.MatchString(name) {
				if p.negate {
					return Exclude
				}
				return Include
			}
		}
	}
	return NoMatch
}

// Includes applies the mode default on top of Match. An empty list includes
// everything. In exact mode an unmatched name is included, the list being a
// deny-list. In regex mode an unmatched name is included only when the list
// holds no positive pattern; one positive pattern flips the default to
// exclude.
func (l *List) Includes(name string) bool {
	switch l.Match(name) {
	case Include:
		return true
	case Exclude:
		return false
	}
	if l.mode == Regex && l.hasPositive {
		return false
	}
	return true
}
