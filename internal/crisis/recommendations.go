package crisis

import "strings"

var baseRecommendations = []string{
	"정신건강위기상담전화: 1393 (24시간)",
	"응급실: 119",
	"신뢰하는 사람에게 연락하기",
	"가까운 정신건강복지센터 방문",
}

var criticalRecommendations = []string{
	"즉시 응급실(119) 또는 정신건강위기상담전화(1393)에 연락하세요",
	"혼자 있지 마세요 - 신뢰하는 사람에게 연락하세요",
	"자살예방상담전화: 1588-9191",
}

var highRecommendations = []string{
	"전문가 상담을 권장합니다",
}

// Recommendations returns the ordered guidance for level. Critical and high
// prepend their own items to the base list; every other level gets the base list.
func Recommendations(level RiskLevel) []string {
	var head []string
	switch level {
	case RiskCritical:
		head = criticalRecommendations
	case RiskHigh:
		head = highRecommendations
	}
	out := make([]string, 0, len(head)+len(baseRecommendations))
	out = append(out, head...)
	out = append(out, baseRecommendations...)
	return out
}

// SafetyBlock returns the static resources block appended to crisis replies.
// Non-crisis levels return "".
func SafetyBlock(level RiskLevel) string {
	var b strings.Builder
	switch level {
	case RiskCritical:
		b.WriteString("⚠️ **긴급 안내**\n\n")
		b.WriteString("현재 상태를 매우 우려하고 있습니다. 즉시 전문가의 도움이 필요합니다.\n\n")
		b.WriteString("- 정신건강위기상담전화: 1393 (24시간)\n")
		b.WriteString("- 응급실: 119\n")
		b.WriteString("- 자살예방상담전화: 1588-9191\n\n")
		b.WriteString("혼자 있지 마시고 신뢰하는 사람에게 연락하세요.")
	case RiskHigh:
		b.WriteString("⚠️ **중요 안내**\n\n")
		b.WriteString("현재 상태를 우려하고 있습니다. 전문가의 도움이 필요할 수 있습니다.\n\n")
		b.WriteString("- 정신건강위기상담전화: 1393 (24시간)\n")
		b.WriteString("- 응급실: 119")
	}
	return b.String()
}
