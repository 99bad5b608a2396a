package fixedincome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithholdingRateBrackets(t *testing.T) {
	cases := []struct {
		days int
		want float64
	}{
		{0, 0.225},
		{180, 0.225},
		{181, 0.20},
		{360, 0.20},
		{361, 0.175},
		{720, 0.175},
		{721, 0.15},
		{3650, 0.15},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, WithholdingRate(tc.days), "days=%d", tc.days)
	}
}

func TestIsExempt(t *testing.T) {
	assert.True(t, IsExempt("LCI"))
	assert.True(t, IsExempt("lca"))
	assert.True(t, IsExempt("CRI"))
	assert.True(t, IsExempt("CRA"))
	assert.False(t, IsExempt("CDB"))
	assert.False(t, IsExempt("Tesouro"))
	assert.False(t, IsExempt(""))
}

func TestGrossUp(t *testing.T) {
	// 94% exempt at 400 days: bracket 17.5% -> 94 / 0.825 = 113.94
	assert.InDelta(t, 113.9393939, GrossUp(94, 400), 1e-6)

	// Short maturity falls in the 22.5% bracket
	assert.InDelta(t, 100/(1-0.225), GrossUp(100, 90), 1e-9)
}
