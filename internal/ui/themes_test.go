package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		theme   string
		noColor bool
		env     map[string]string
		want    string
		wantErr bool
	}{
		{"default is dark", "", false, nil, "dark", false},
		{"light", "light", false, nil, "light", false},
		{"case insensitive", " Dark ", false, nil, "dark", false},
		{"no-color flag wins", "light", true, nil, "none", false},
		{"NO_COLOR env", "dark", false, map[string]string{"NO_COLOR": ""}, "none", false},
		{"explicit none", "none", false, nil, "none", false},
		{"unknown", "neon", false, nil, "none", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Resolve(tc.theme, tc.noColor, env(tc.env))
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "available")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got.Name)
		})
	}
}

func TestThemesAreIndependentValues(t *testing.T) {
	t.Parallel()
	a := DarkTheme()
	a.Primary = "changed"
	assert.NotEqual(t, "changed", DarkTheme().Primary)
}

func TestPaint(t *testing.T) {
	t.Parallel()
	dark := DarkTheme()
	painted := dark.Paint(dark.Success, "ok")
	assert.True(t, strings.HasPrefix(painted, dark.Success))
	assert.True(t, strings.HasSuffix(painted, dark.Reset))

	none := NoColorTheme()
	assert.False(t, none.Enabled())
	assert.Equal(t, "ok", none.Paint(none.Success, "ok"))
	assert.Equal(t, "ok", dark.Paint("", "ok"))
}

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"dark", "light", "none"}, Names())
}
