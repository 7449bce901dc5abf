package crisis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsNesting(t *testing.T) {
	base := Recommendations(RiskLow)
	high := Recommendations(RiskHigh)
	critical := Recommendations(RiskCritical)

	require.Len(t, base, 4)
	require.Len(t, high, 5)
	require.Len(t, critical, 7)

	assert.Equal(t, base, high[1:], "high must end with the base list")
	assert.Equal(t, base, critical[3:], "critical must end with the base list")
	assert.Equal(t, base, Recommendations(RiskMedium))
	assert.Equal(t, "자살예방상담전화: 1588-9191", critical[2])
}

func TestRecommendationsReturnsFreshSlice(t *testing.T) {
	first := Recommendations(RiskCritical)
	first[0] = "changed"
	assert.NotEqual(t, "changed", Recommendations(RiskCritical)[0])
}

func TestSafetyBlock(t *testing.T) {
	critical := SafetyBlock(RiskCritical)
	high := SafetyBlock(RiskHigh)

	assert.Contains(t, critical, "1393")
	assert.Contains(t, critical, "1588-9191")
	assert.True(t, strings.HasPrefix(critical, "⚠️ **긴급 안내**"))
	assert.Contains(t, high, "1393")
	assert.NotContains(t, high, "1588-9191")
	assert.Empty(t, SafetyBlock(RiskMedium))
	assert.Empty(t, SafetyBlock(RiskLow))
}
