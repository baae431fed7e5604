package extraction

import (
	"regexp"
	"strings"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

var (
	residentialKeywords = []string{"house", "home", "apartment", "condo", "residential", "live", "family"}
	commercialKeywords  = []string{"office", "business", "company", "commercial", "retail", "warehouse", "industrial"}

	// propertyKeywords stop the direct-answer heuristic from reading a
	// property description as a name.
	propertyKeywords = []string{
		"residential", "commercial", "house", "apartment", "condo",
		"office", "retail", "industrial", "warehouse", "building",
	}

	ackWords = map[string]bool{
		"yes": true, "no": true, "sure": true, "ok": true, "okay": true,
		"residential": true, "commercial": true,
	}
)

var (
	emailRE     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	bareEmailRE = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRE     = regexp.MustCompile(`\+?\d{7,}|\d{3,}[-\s]?\d{3,}[-\s]?\d{3,}|\d{10,}`)
	nameLikeRE  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phoneNoise  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	digitsRE    = regexp.MustCompile(`^\+?\d{7,15}$`)

	refusalRE = regexp.MustCompile(`(?i)\b(?:no|not interested|busy|later|not now)\b`)
)

func countContains(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}

// DetectLeadType votes residential against commercial keywords. A tie,
// including zero-zero, is undecided.
func DetectLeadType(utterance string) model.LeadType {
	lower := strings.ToLower(utterance)
	res := countContains(lower, residentialKeywords)
	com := countContains(lower, commercialKeywords)
	switch {
	case res > com:
		return model.LeadTypeResidential
	case com > res:
		return model.LeadTypeCommercial
	default:
		return model.LeadTypeUnset
	}
}

// IsRefusal reports whether text reads as declining the conversation.
func IsRefusal(text string) bool {
	return refusalRE.MatchString(text)
}
