package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{
			name:    "mysql backticks",
			dialect: MySQL,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    "SELECT `id` FROM `t`",
		},
		{
			name:    "sqlite backticks",
			dialect: SQLite,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    "SELECT `id` FROM `t`",
		},
		{
			name:    "oracle double quotes",
			dialect: Oracle,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    `SELECT "id" FROM "t"`,
		},
		{
			name:    "postgres double quotes",
			dialect: Postgres,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    `SELECT "id" FROM "t"`,
		},
		{
			name:    "sqlserver square brackets",
			dialect: SQLServer,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    "SELECT [id] FROM [t]",
		},
		{
			name:    "generic fallback square brackets",
			dialect: Generic,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    "SELECT [id] FROM [t]",
		},
		{
			name:    "unknown dialect passes through",
			dialect: Other,
			in:      "SELECT [[id]] FROM [[t]]",
			want:    "SELECT [[id]] FROM [[t]]",
		},
		{
			name:    "no markers is a no-op",
			dialect: MySQL,
			in:      "SELECT id FROM t WHERE name = 'a [b] c'",
			want:    "SELECT id FROM t WHERE name = 'a [b] c'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, tt.dialect))
		})
	}
}

func TestNormalizePostgresArraySubscript(t *testing.T) {
	// The single ] in val[1] is an array subscript, not a close marker.
	got := Normalize("[[arr]] || val[1]", Postgres)
	assert.Equal(t, `"arr" || val[1]`, got)
}

func TestNormalizePostgresEscapedBrackets(t *testing.T) {
	// Escaped literal brackets are unescaped after marker substitution.
	got := Normalize(`SELECT [[tags]]\[1\] FROM [[t]]`, Postgres)
	assert.Equal(t, `SELECT "tags"[1] FROM "t"`, got)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"SELECT [[id]] FROM [[t]]",
		"[[arr]] || val[1]",
		"plain sql without markers",
	}
	dialects := []Dialect{MySQL, SQLite, Postgres, Oracle, SQLServer, Generic, Other}

	for _, d := range dialects {
		for _, in := range inputs {
			once := Normalize(in, d)
			assert.Equal(t, once, Normalize(once, d),
				"dialect %s input %q", d, in)
		}
	}
}
