package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleID identifies a single password rule.
type RuleID string

const (
	RuleMinLength RuleID = "min_length"
	RuleHasUpper  RuleID = "has_upper"
	RuleHasLower  RuleID = "has_lower"
	RuleHasDigit  RuleID = "has_digit"
	RuleHasSymbol RuleID = "has_symbol"
)

// Character classes checked by the rules.
const (
	UppercaseLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowercaseLetters = "abcdefghijklmnopqrstuvwxyz"
	Digits           = "0123456789"
	Symbols          = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// DefaultMinPasswordLength is the strictest threshold seen across the
// variants of the login page (the relaxed one used 6).
const DefaultMinPasswordLength = 8

var validate = validator.New()

// tagEscaper protects the validator tag separators that appear in Symbols.
var tagEscaper = strings.NewReplacer(",", "0x2C", "|", "0x7C")

func containsAny(chars string) string {
	return "containsany=" + tagEscaper.Replace(chars)
}

// PasswordPolicy configures which rules are enforced.
type PasswordPolicy struct {
	MinLength        int  `json:"min_length" toml:"min_length"`
	RequireUppercase bool `json:"require_uppercase" toml:"require_uppercase"`
	RequireLowercase bool `json:"require_lowercase" toml:"require_lowercase"`
	RequireDigit     bool `json:"require_digit" toml:"require_digit"`
	RequireSymbol    bool `json:"require_symbol" toml:"require_symbol"`
}

// DefaultPolicy enables every rule with an 8 character minimum.
func DefaultPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        DefaultMinPasswordLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSymbol:    true,
	}
}

// Requirement is one line of the live requirement checklist.
type Requirement struct {
	Rule  RuleID
	Label string
	Met   bool
}

type rule struct {
	id    RuleID
	label string
	tag   string
}

// rules returns the enabled rules in reporting order.
func (p PasswordPolicy) rules() []rule {
	rs := make([]rule, 0, 5)
	if p.MinLength > 0 {
		rs = append(rs, rule{
			id:    RuleMinLength,
			label: fmt.Sprintf("at least %d characters", p.MinLength),
			tag:   fmt.Sprintf("min=%d", p.MinLength),
		})
	}
	if p.RequireUppercase {
		rs = append(rs, rule{id: RuleHasUpper, label: "one uppercase letter", tag: containsAny(UppercaseLetters)})
	}
	if p.RequireLowercase {
		rs = append(rs, rule{id: RuleHasLower, label: "one lowercase letter", tag: containsAny(LowercaseLetters)})
	}
	if p.RequireDigit {
		rs = append(rs, rule{id: RuleHasDigit, label: "one number", tag: containsAny(Digits)})
	}
	if p.RequireSymbol {
		rs = append(rs, rule{id: RuleHasSymbol, label: "one symbol (!@#$%^&* etc.)", tag: containsAny(Symbols)})
	}
	return rs
}

// Score returns the ids of every violated rule. An empty result means the
// password is accepted.
func (p PasswordPolicy) Score(candidate string) []RuleID {
	var violated []RuleID
	for _, r := range p.rules() {
		if validate.Var(candidate, r.tag) != nil {
			violated = append(violated, r.id)
		}
	}
	return violated
}

// Accepts reports whether candidate satisfies every enabled rule.
func (p PasswordPolicy) Accepts(candidate string) bool {
	return len(p.Score(candidate)) == 0
}

// Requirements evaluates every enabled rule and reports each one, met or not.
func (p PasswordPolicy) Requirements(candidate string) []Requirement {
	rs := p.rules()
	out := make([]Requirement, 0, len(rs))
	for _, r := range rs {
		out = append(out, Requirement{
			Rule:  r.id,
			Label: r.label,
			Met:   validate.Var(candidate, r.tag) == nil,
		})
	}
	return out
}

// Describe renders violations as a single sentence, or "" if there are none.
func (p PasswordPolicy) Describe(violated []RuleID) string {
	if len(violated) == 0 {
		return ""
	}
	labels := make(map[RuleID]string, 5)
	for _, r := range p.rules() {
		labels[r.id] = r.label
	}
	parts := make([]string, 0, len(violated))
	for _, id := range violated {
		if l, ok := labels[id]; ok {
			parts = append(parts, l)
		}
	}
	return "Password must contain " + strings.Join(parts, ", ")
}
