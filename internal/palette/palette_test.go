package palette

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexOut = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"full", "#7aa2f7", "#7aa2f7", false},
		{"no hash", "7aa2f7", "#7aa2f7", false},
		{"short form", "#abc", "#aabbcc", false},
		{"uppercase", "#7AA2F7", "#7aa2f7", false},
		{"whitespace", "  #7aa2f7 ", "#7aa2f7", false},
		{"empty", "", "", true},
		{"bad length", "#7aa2f", "", true},
		{"not hex", "#zzzzzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseHex(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatHex(c))
		})
	}
}

func TestLightenDarken(t *testing.T) {
	c, err := ParseHex("#808080")
	require.NoError(t, err)

	lighter := Lighten(c, 0.2)
	darker := Darken(c, 0.2)

	_, _, v := c.Hsv()
	_, _, lv := lighter.Hsv()
	_, _, dv := darker.Hsv()

	assert.Greater(t, lv, v)
	assert.Less(t, dv, v)

	// Clamping at the extremes
	white, _ := ParseHex("#ffffff")
	assert.Equal(t, "#ffffff", FormatHex(Lighten(white, 0.5)))
	black, _ := ParseHex("#000000")
	assert.Equal(t, "#000000", FormatHex(Darken(black, 0.5)))
}

func TestRotateHue_Wraps(t *testing.T) {
	c, err := ParseHex("#ff0000")
	require.NoError(t, err)

	full := RotateHue(c, 360)
	assert.Equal(t, FormatHex(c), FormatHex(full))

	negative := RotateHue(c, -90)
	positive := RotateHue(c, 270)
	assert.Equal(t, FormatHex(positive), FormatHex(negative))
}

func TestGenerate(t *testing.T) {
	p, err := Generate("#7aa2f7")
	require.NoError(t, err)

	for _, key := range []string{
		"accent", "accent_dim", "accent_bright",
		"background", "background_alt",
		"foreground", "foreground_dim",
		"surface", "border_active", "border_inactive", "urgent",
	} {
		assert.Contains(t, p, key)
		assert.Regexp(t, hexOut, p[key], "key %s", key)
	}

	assert.Equal(t, "#7aa2f7", p["accent"])
	assert.Equal(t, p["accent"], p["border_active"])
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate("#bb9af7")
	require.NoError(t, err)
	b, err := Generate("#bb9af7")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_InvalidSeed(t *testing.T) {
	_, err := Generate("splendid")
	assert.Error(t, err)
}
