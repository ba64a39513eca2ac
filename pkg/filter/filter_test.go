package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     Mode
		patterns []string
		wantErr  bool
	}{
		{"empty exact", Exact, nil, false},
		{"empty regex", Regex, nil, false},
		{"exact literals", Exact, []string{"mysql", "app"}, false},
		{"exact with regex metacharacters", Exact, []string{"(unbalanced"}, false},
		{"regex valid", Regex, []string{"^my", ":^mysql$"}, false},
		{"regex invalid", Regex, []string{"(unbalanced"}, true},
		{"regex invalid after negation", Regex, []string{":(unbalanced"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(tt.mode, tt.patterns)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.patterns), l.Len())
		})
	}
}

func TestExactMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		db       string
		include  bool
	}{
		{"empty list includes", nil, "anything", true},
		{"listed name excluded", []string{"mysql"}, "mysql", false},
		{"unlisted name included", []string{"mysql"}, "app", true},
		{"order irrelevant for literals", []string{"a", "b", "c"}, "b", false},
		{"no partial matching", []string{"my"}, "mysql", true},
		{"no regex interpretation", []string{"^my"}, "mysql", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(Exact, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.include, l.Includes(tt.db))
		})
	}
}

func TestRegexMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		db       string
		include  bool
	}{
		{"empty list includes", nil, "anything", true},
		{"positive match includes", []string{"^my"}, "mydb", true},
		{"positive present, no match excludes", []string{"^my"}, "app", false},
		{"negated match excludes", []string{":^tmp_"}, "tmp_cache", false},
		{"only negated patterns, no match includes", []string{":^tmp_"}, "app", true},
		{"first match wins, positive first", []string{"^my", ":^mysql$"}, "mydb", true},
		// the documented sharp edge: "^my" matches "mysql" before the more
		// specific negated pattern is ever consulted
		{"first match wins over specificity", []string{"^my", ":^mysql$"}, "mysql", true},
		{"negated first excludes", []string{":^mysql$", "^my"}, "mysql", false},
		{"negated first, other names still match positive", []string{":^mysql$", "^my"}, "mydb", true},
		{"mixed list, nothing matches, positive present", []string{":^tmp_", "^prod_"}, "staging", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(Regex, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.include, l.Includes(tt.db))
		})
	}
}

func TestMatchDecision(t *testing.T) {
	t.Parallel()

	l, err := Compile(Regex, []string{"^my", ":^tmp_"})
	require.NoError(t, err)

	assert.Equal(t, Include, l.Match("mydb"))
	assert.Equal(t, Exclude, l.Match("tmp_cache"))
	assert.Equal(t, NoMatch, l.Match("app"))
}
