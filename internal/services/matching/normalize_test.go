package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{"Diacritics", "Jiří Novák", "jiri novak"},
		{"AlreadyPlain", "jiri novak", "jiri novak"},
		{"AcademicTitle", "Mgr. Jana Nováková", "jana novakova"},
		{"MultipleTitles", "doc. MUDr. Petr Svoboda", "petr svoboda"},
		{"PunctuationAndWhitespace", "  Novák,Jan  ", "novak jan"},
		{"Empty", "", ""},
		{"OnlyTitle", "Ing.", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeName(tc.in))
		})
	}
}

func TestNormalizeNameRoundTrip(t *testing.T) {
	// accented and plain spellings of the same name normalize identically
	assert.Equal(t, NormalizeName("Jiří Novák"), NormalizeName("jiri novak"))
	assert.Equal(t, NormalizeName("Nováková Žofie"), NormalizeName("novakova zofie"))
}

func TestNameTokens(t *testing.T) {
	assert.Equal(t, []string{"jan", "novak"}, NameTokens("Ing. Jan Novák"))
	assert.Empty(t, NameTokens(""))
}
