// Package lexicon holds the static keyword tables used by the crisis,
// sentiment and danger-word components. Lists are ordered; callers that
// short-circuit on the first hit depend on that order.
package lexicon

// DangerWord is a journal keyword that counts toward a caregiver alert.
// Weight ranks severity for reporting only; alert thresholds use raw counts.
type DangerWord struct {
	Word   string
	Weight int
}

// Entries are matched as lowercase substrings, optionally with whitespace removed.
var criticalPhrases = []string{
	"죽고 싶어",
	"죽고 싶다",
	"죽고 싶습니다",
	"자살",
	"끝내고 싶어",
	"끝내고 싶다",
	"더 이상 버틸 수 없어",
	"살 이유가 없어",
	"살고 싶지 않아",
	"살고 싶지 않다",
	"살고 싶지 않습니다",
	"자해",
	"생각이 없어",
	"목숨을 끊고",
	"스스로를 해치고",
	"더 이상 살 이유가",
	"죽음",
	"자살 생각",
	"자해 생각",
	"극단적",
	"극단적 선택",
	"생을 마감",
	"생명을 끊",
	"살아갈 이유가 없어",
	"이 세상에서 사라지고",
	"없어지고 싶어",
	"없어지고 싶다",
	"죽는 게 낫겠어",
	"죽는 게 나을 것 같아",
	"죽음이 나을 것",
	"살아갈 수 없어",
	"더는 못 살겠어",
	"더는 못 산다",
	"kill myself",
	"suicide",
	"end my life",
	"want to die",
}

var negativeAffectPhrases = []string{
	"힘들어",
	"괴로워",
	"괴로워요",
	"무력해",
	"무기력해",
	"절망적",
	"포기",
	"의미없어",
	"희망없어",
	"망가져",
	"버티기 힘들어",
	"너무 힘들어",
	"견디기 어려워",
	"이대로는 안 될 것 같아",
	"미치겠어",
	"화풀이",
	"자학",
	"자책",
	"죄책감",
	"후회",
	"나약해",
	"나약하다",
	"쓸모없어",
	"쓸모없다",
	"누가 될 자격이 없어",
	"혼자야",
	"혼자다",
	"고독해",
	"외로워",
	"절벽",
	"절망",
	"끝났어",
	"끝났다",
	"최악이야",
	"최악이다",
}

var positiveSentimentWords = []string{
	"좋아",
	"기쁘",
	"행복",
	"만족",
	"감사",
	"희망",
	"기대",
	"즐거",
	"편안",
	"안정",
}

var negativeSentimentWords = []string{
	"슬프",
	"힘들",
	"괴로",
	"무력",
	"절망",
	"두려",
	"불안",
	"짜증",
	"우울",
	"좌절",
}

// No entry is a substring of another, so one occurrence never counts twice.
var dangerWords = []DangerWord{
	{Word: "죽고싶어", Weight: 3},
	{Word: "자살", Weight: 3},
	{Word: "자해", Weight: 3},
	{Word: "유서", Weight: 3},
	{Word: "뛰어내리", Weight: 3},
	{Word: "수면제", Weight: 3},
	{Word: "살기싫어", Weight: 2},
	{Word: "사라지고싶어", Weight: 2},
	{Word: "끝내고싶어", Weight: 2},
	{Word: "목숨", Weight: 2},
	{Word: "쓸모없", Weight: 2},
	{Word: "절망", Weight: 1},
	{Word: "우울해", Weight: 1},
	{Word: "외로워", Weight: 1},
	{Word: "힘들어", Weight: 1},
}

var mediaRequestKeywords = []string{
	"추천",
	"노래",
	"음악",
	"영화",
	"드라마",
	"책",
	"플레이리스트",
	"들을 만한",
	"볼 만한",
	"recommend",
	"song",
	"movie",
	"playlist",
}

var negativeEmotionKeywords = []string{
	"슬퍼",
	"슬프",
	"우울",
	"힘들",
	"괴로",
	"외로",
	"쓸쓸",
	"불안",
	"걱정",
	"초조",
	"두려",
	"무서",
	"짜증",
	"화나",
	"화가",
	"분노",
	"억울",
	"답답",
	"막막",
	"지쳐",
	"지친",
	"피곤",
	"무기력",
	"무력",
	"허무",
	"공허",
	"절망",
	"좌절",
	"상처",
	"서운",
	"실망",
	"후회",
	"자책",
	"죄책감",
	"눈물",
	"울고",
	"울었",
	"잠이 안",
	"못 자",
	"스트레스",
	"sad",
	"depressed",
	"lonely",
	"anxious",
	"tired",
}

func clone(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// CriticalPhrases returns the ordered critical-crisis phrases.
func CriticalPhrases() []string { return clone(criticalPhrases) }

// NegativeAffectPhrases returns the phrases that raise risk to medium or high.
func NegativeAffectPhrases() []string { return clone(negativeAffectPhrases) }

// PositiveSentimentWords returns the positive sentiment stems.
func PositiveSentimentWords() []string { return clone(positiveSentimentWords) }

// NegativeSentimentWords returns the negative sentiment stems.
func NegativeSentimentWords() []string { return clone(negativeSentimentWords) }

// MediaRequestKeywords returns words that explicitly ask for songs, films or books.
func MediaRequestKeywords() []string { return clone(mediaRequestKeywords) }

// NegativeEmotionKeywords returns the broad emotion list used to offer media suggestions.
func NegativeEmotionKeywords() []string { return clone(negativeEmotionKeywords) }

// DangerWords returns the ordered danger-word table.
func DangerWords() []DangerWord {
	out := make([]DangerWord, len(dangerWords))
	copy(out, dangerWords)
	return out
}

// DangerWeight returns the weight of word, or 0 when it is not in the table.
func DangerWeight(word string) int {
	for _, dw := range dangerWords {
		if dw.Word == word {
			return dw.Weight
		}
	}
	return 0
}
