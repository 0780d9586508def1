// Package intent classifies user utterances with an ordered rule table.
//
// Precedence is fixed: global reset phrases first (any state), then the
// IDLE-only keyword rules in table order, then the fallback result.
package intent

import (
	"regexp"
	"strings"

	"github.com/posterman/orderbot/pkg/domain"
)

// Scope restricts where a rule is evaluated.
type Scope int

const (
	// ScopeGlobal rules are checked in every state, before anything else.
	ScopeGlobal Scope = iota
	// ScopeIdle rules are only checked while the conversation is IDLE.
	ScopeIdle
)

// Rule maps a pattern to an intent. A rule matches when the normalized
// utterance equals one of Exact, contains one of Keywords, or matches Pattern.
type Rule struct {
	Intent   domain.Intent
	Scope    Scope
	Exact    []string
	Keywords []string
	Pattern  *regexp.Regexp

	// Extract fills intent-specific details. raw is the trimmed, original-case text.
	Extract func(normalized, raw string, m *domain.Match)
}

func (r Rule) matches(normalized string) bool {
	for _, phrase := range r.Exact {
		if normalized == phrase {
			return true
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return r.Pattern != nil && r.Pattern.MatchString(normalized)
}

// Matcher evaluates rules in order. It is immutable and safe for concurrent use.
type Matcher struct {
	rules []Rule
}

// New creates a Matcher over the given rules. With no rules, DefaultRules is used.
func New(rules ...Rule) *Matcher {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the rule table in evaluation order.
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Normalize lower-cases and trims an utterance the way the rules expect.
func Normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

// Classify returns the intent of utterance in the given state. It has no side effects.
func (m *Matcher) Classify(state domain.StateID, utterance string) domain.Match {
	raw := strings.TrimSpace(utterance)
	normalized := Normalize(utterance)

	for _, scope := range []Scope{ScopeGlobal, ScopeIdle} {
		if scope == ScopeIdle && state != domain.StateIdle {
			break
		}
		for _, rule := range m.rules {
			if rule.Scope != scope || !rule.matches(normalized) {
				continue
			}
			match := domain.Match{Intent: rule.Intent}
			if rule.Extract != nil {
				rule.Extract(normalized, raw, &match)
			}
			return match
		}
	}

	if state == domain.StateIdle {
		return domain.Match{Intent: domain.IntentNoMatch}
	}
	return domain.Match{Intent: domain.IntentFreeText}
}
