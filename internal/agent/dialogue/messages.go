package dialogue

import (
	"fmt"
	"regexp"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

const (
	QualifyingQuestion = "Great! I'd love to understand what kind of property you're looking for. Are you interested in residential or commercial property?"
	RescheduleMessage  = "I completely understand. We all have busy schedules. Would there be a better time for us to chat? I'm here whenever works best for you."
	ClarifyMessage     = "I hope I didn't catch you at a bad time. Would you like to chat about your property needs now, or would you prefer I reach out later?"
	SchedulingFallback = "When would be a good time for you to view some properties?"
	CompletionFallback = "Thank you for your time. I'll be in touch with property options that match your requirements."
	SaveFailureMessage = "I've gathered your information. However, I'm having trouble saving it at the moment. Please try again later."
	ErrorMessage       = "I'm sorry, I didn't quite catch that. Could you please clarify?"
)

// Greeting opens every conversation.
func Greeting(p model.PersonaConfig) string {
	return fmt.Sprintf("Hi, this is %s from %s. Do you have a moment to chat about your property needs?", p.AgentName, p.CompanyName)
}

// affirmative is checked before negative.
var (
	affirmativeRE = regexp.MustCompile(`(?i)\b(?:yes|sure|okay|fine|go ahead)\b`)
	negativeRE    = regexp.MustCompile(`(?i)\b(?:no|busy|later|not now)\b`)
)
