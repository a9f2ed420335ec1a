package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_AcceptsStrongPasswords(t *testing.T) {
	p := DefaultPolicy()
	for _, pw := range []string{"Demo123!", "Str0ng!pw", "aB3,aaaa", "aB3|aaaa", `aB3\aaaa`, "Zz9?Zz9?Zz9?"} {
		assert.Empty(t, p.Score(pw), "password %q should be accepted", pw)
		assert.True(t, p.Accepts(pw))
	}
}

func TestScore_ShortPasswordsAlwaysReportMinLength(t *testing.T) {
	p := DefaultPolicy()
	for n := 0; n < p.MinLength; n++ {
		pw := strings.Repeat("a", n)
		assert.Contains(t, p.Score(pw), RuleMinLength, "len=%d", n)
	}
	assert.NotContains(t, p.Score("aaaaaaaa"), RuleMinLength)
}

func TestScore_CollectsAllViolationsInOrder(t *testing.T) {
	p := DefaultPolicy()

	got := p.Score("")
	require.Equal(t, []RuleID{RuleMinLength, RuleHasUpper, RuleHasLower, RuleHasDigit, RuleHasSymbol}, got)

	assert.Equal(t, []RuleID{RuleHasUpper, RuleHasDigit, RuleHasSymbol}, p.Score("lowercaseonly"))
	assert.Equal(t, []RuleID{RuleMinLength, RuleHasSymbol}, p.Score("Ab1"))
}

func TestScore_SymbolSet(t *testing.T) {
	p := PasswordPolicy{RequireSymbol: true}
	for _, r := range Symbols {
		assert.Empty(t, p.Score(string(r)), "symbol %q should count", r)
	}
	for _, s := range []string{"~", "`", " ", "é", "a"} {
		assert.Equal(t, []RuleID{RuleHasSymbol}, p.Score(s), "%q is not in the symbol set", s)
	}
}

func TestScore_NonASCIILettersDoNotCount(t *testing.T) {
	p := PasswordPolicy{RequireUppercase: true, RequireLowercase: true}
	assert.Equal(t, []RuleID{RuleHasUpper, RuleHasLower}, p.Score("ÄÖÜäöü"))
}

func TestScore_ConfigurableThreshold(t *testing.T) {
	p := DefaultPolicy()
	p.MinLength = 6

	assert.Empty(t, p.Score("Ab1!xy"))
	assert.Equal(t, []RuleID{RuleMinLength}, p.Score("Ab1!x"))
}

func TestScore_DisabledRulesAreNeverReported(t *testing.T) {
	p := PasswordPolicy{MinLength: 4}
	assert.Empty(t, p.Score("aaaa"))
	assert.Equal(t, []RuleID{RuleMinLength}, p.Score("aaa"))
}

func TestRequirements_ReportsEveryEnabledRule(t *testing.T) {
	p := DefaultPolicy()

	reqs := p.Requirements("abc")
	require.Len(t, reqs, 5)

	met := map[RuleID]bool{}
	for _, r := range reqs {
		met[r.Rule] = r.Met
	}
	assert.Equal(t, map[RuleID]bool{
		RuleMinLength: false,
		RuleHasUpper:  false,
		RuleHasLower:  true,
		RuleHasDigit:  false,
		RuleHasSymbol: false,
	}, met)
	assert.Equal(t, "at least 8 characters", reqs[0].Label)
}

func TestDescribe(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, "", p.Describe(nil))
	assert.Equal(t,
		"Password must contain at least 8 characters, one number, one symbol (!@#$%^&* etc.)",
		p.Describe([]RuleID{RuleMinLength, RuleHasDigit, RuleHasSymbol}))
}

func TestScore_Deterministic(t *testing.T) {
	p := DefaultPolicy()
	first := p.Score("weak")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Score("weak"))
	}
}
