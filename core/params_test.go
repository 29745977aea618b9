package core

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredInt32_Parses(t *testing.T) {
	tests := map[string]int32{
		"0":           0,
		"42":          42,
		"-17":         -17,
		"+8":          8,
		" 12 ":        12,
		"2147483647":  2147483647,
		"-2147483648": -2147483648,
		"1 000":       1000,
		"0x10":        16,
		"0XfF":        255,
		"#10":         16,
		"-0x10":       -16,
		"0x7fffffff":  2147483647,
		"-0x80000000": -2147483648,
	}

	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := RequiredInt32(url.Values{"a": {raw}}, "a")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRequiredInt32_Missing(t *testing.T) {
	for _, values := range []url.Values{{}, {"a": {""}}, {"a": {"   "}}} {
		_, err := RequiredInt32(values, "a")

		var be *BindError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "a", be.Param)
		assert.ErrorIs(t, err, ErrMissingParam)
		assert.Equal(t, "required parameter 'a' is not present", err.Error())
	}
}

func TestRequiredInt32_Invalid(t *testing.T) {
	for _, raw := range []string{"abc", "1.5", "2147483648", "-2147483649", "1e3", "0x", "#", "0x-1", "+0x10", "0x80000000", "0xg1", "1_000"} {
		t.Run(raw, func(t *testing.T) {
			_, err := RequiredInt32(url.Values{"b": {raw}}, "b")

			var be *BindError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "b", be.Param)
			assert.Equal(t, raw, be.Value)
			assert.ErrorIs(t, err, ErrInvalidParam)
		})
	}
}
