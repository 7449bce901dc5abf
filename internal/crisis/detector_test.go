package crisis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantLevel RiskLevel
		wantPhase string
		wantCount int
	}{
		{name: "critical keyword", message: "자살 생각이 자주 들어", wantLevel: RiskCritical, wantPhase: "자살"},
		{name: "critical without spaces", message: "진짜 죽고싶어", wantLevel: RiskCritical, wantPhase: "죽고 싶어"},
		{name: "critical with extra spaces", message: "죽 고  싶 어", wantLevel: RiskCritical, wantPhase: "죽고 싶어"},
		{name: "critical with newlines", message: "더는\n못\t살겠어", wantLevel: RiskCritical, wantPhase: "더는 못 살겠어"},
		{name: "english is case folded", message: "I Want To Die", wantLevel: RiskCritical, wantPhase: "want to die"},
		{name: "critical beats negative affect", message: "너무 힘들어 외로워 자해 하고 싶어", wantLevel: RiskCritical, wantPhase: "자해"},
		{name: "three negatives is high", message: "너무 힘들어 그리고 외로워", wantLevel: RiskHigh, wantCount: 3},
		{name: "two negatives is medium", message: "후회하고 자책하게 돼", wantLevel: RiskMedium, wantCount: 2},
		{name: "one negative is medium", message: "요즘 좀 외로워", wantLevel: RiskMedium, wantCount: 1},
		{name: "spaced negative phrase", message: "버티기힘들어", wantLevel: RiskMedium, wantCount: 2},
		{name: "no matches", message: "오늘 하루 괜찮았어", wantLevel: RiskLow},
		{name: "empty", message: "", wantLevel: RiskLow},
		{name: "whitespace only", message: "  \n\t ", wantLevel: RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.message)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantLevel.Signaled(), got.Signaled)
			if tt.wantPhase != "" {
				assert.Equal(t, tt.wantPhase, got.MatchedPhrase)
			}
			assert.Equal(t, tt.wantCount, got.NegativeMatches)
		})
	}
}

func TestDetectCriticalPhrasesAlwaysCritical(t *testing.T) {
	for _, phrase := range []string{"죽고 싶다", "살 이유가 없어", "극단적 선택", "없어지고 싶어"} {
		for _, msg := range []string{phrase, "나 " + phrase + " 정말", stripSpace(phrase)} {
			got := Detect(msg)
			assert.Equal(t, RiskCritical, got.Level, "message %q", msg)
			assert.True(t, got.Signaled)
			assert.True(t, got.Level.IsCrisis())
		}
	}
}

func TestRiskLevelDerivations(t *testing.T) {
	tests := []struct {
		level    RiskLevel
		crisis   bool
		signaled bool
	}{
		{RiskUnset, false, false},
		{RiskLow, false, false},
		{RiskMedium, false, true},
		{RiskHigh, true, true},
		{RiskCritical, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.crisis, tt.level.IsCrisis(), "IsCrisis(%q)", tt.level)
		assert.Equal(t, tt.signaled, tt.level.Signaled(), "Signaled(%q)", tt.level)
	}
}

func TestParseRiskLevel(t *testing.T) {
	assert.Equal(t, RiskHigh, ParseRiskLevel(" HIGH "))
	assert.Equal(t, RiskCritical, ParseRiskLevel("critical"))
	assert.Equal(t, RiskLow, ParseRiskLevel("unknown"))
	assert.Equal(t, RiskLow, ParseRiskLevel(""))
}
