package amount

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func units(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.23", Format(units("1230000000000000000"), 18, 6))
	assert.Equal(t, "1.23", Format(units("1239999999999999999"), 18, 2))
	assert.Equal(t, "1", Format(units("1000000000000000000"), 18, 4))
	assert.Equal(t, "0", Format(units("999"), 18, 6))
	assert.Equal(t, "0", Format(nil, 18, 6))
	assert.Equal(t, "42.5", Format(units("42500000"), 6, 6))
}

func TestFormatSignificant(t *testing.T) {
	assert.Equal(t, "1.23", FormatSignificant(units("1230000000000000000"), 18, 6))
	assert.Equal(t, "123456000", FormatSignificant(units("123456789000000000000000000"), 18, 6))
	assert.Equal(t, "0.000123456", FormatSignificant(units("123456789000000"), 18, 6))
	assert.Equal(t, "9.99999", FormatSignificant(units("9999999999999999999"), 18, 6))
	assert.Equal(t, "0", FormatSignificant(big.NewInt(0), 18, 6))
}

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("1.5", 18)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", v.String())

	v, err = ParseUnits(" 100 ", 6)
	require.NoError(t, err)
	assert.Equal(t, "100000000", v.String())

	_, err = ParseUnits("1.0000001", 6)
	require.Error(t, err)

	_, err = ParseUnits("-1", 18)
	require.Error(t, err)

	_, err = ParseUnits("abc", 18)
	require.Error(t, err)
}

func TestEnforceNumericInput(t *testing.T) {
	tests := []struct {
		input      string
		noDecimals bool
		want       string
		ok         bool
	}{
		{"1,5", false, "1.5", true},
		{"12.", false, "12.", true},
		{".5", false, ".5", true},
		{"", false, "", true},
		{"1.5", true, "15", true},
		{"1,5", true, "", false},
		{"1a", false, "", false},
		{"1.2.3", false, "", false},
		{"-1", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := EnforceNumericInput(tt.input, tt.noDecimals)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClampToMax(t *testing.T) {
	assert.Equal(t, "100", ClampToMax("150", "100"))
	assert.Equal(t, "50", ClampToMax("50", "100"))
	assert.Equal(t, "100.0", ClampToMax("100.0", "100"))
	assert.Equal(t, "", ClampToMax("", "100"))
	assert.Equal(t, "150", ClampToMax("150", ""))
}
