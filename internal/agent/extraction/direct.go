package extraction

import (
	"strings"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/lead"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

// directAnswers reads short replies that answer the last question on their
// own: a bare name, a bare email, a bare phone number, or an email and a
// phone together. Property descriptions yield nothing.
func directAnswers(utterance string, s *lead.Store) map[model.Field]string {
	msg := strings.TrimSpace(utterance)
	if msg == "" {
		return nil
	}
	lower := strings.ToLower(msg)
	if countContains(lower, propertyKeywords) > 0 {
		return nil
	}

	if s.Get(model.FieldName).IsUnset() && len(strings.Fields(msg)) <= 3 &&
		nameLikeRE.MatchString(msg) && !ackWords[lower] {
		return map[model.Field]string{model.FieldName: msg}
	}

	out := make(map[model.Field]string)
	if s.Get(model.FieldEmail).IsUnset() && bareEmailRE.MatchString(msg) {
		out[model.FieldEmail] = msg
	}
	if s.Get(model.FieldPhone).IsUnset() {
		if cleaned := phoneNoise.Replace(msg); digitsRE.MatchString(cleaned) {
			out[model.FieldPhone] = msg
		}
	}
	if len(out) == 0 {
		email := emailRE.FindString(msg)
		phone := phoneRE.FindString(msg)
		if email != "" && phone != "" {
			if s.Get(model.FieldEmail).IsUnset() {
				out[model.FieldEmail] = email
			}
			if s.Get(model.FieldPhone).IsUnset() {
				out[model.FieldPhone] = phone
			}
		}
	}
	return out
}
