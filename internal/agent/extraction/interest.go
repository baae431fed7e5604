package extraction

import (
	"context"
	"strings"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/lead"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/prompts"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const defaultInterestWindow = 5

// InterestClassifier labels a conversation Hot, Warm or Cold.
type InterestClassifier struct {
	oracle model.Oracle
	window int
}

func NewInterestClassifier(o model.Oracle, window int) *InterestClassifier {
	if window <= 0 {
		window = defaultInterestWindow
	}
	return &InterestClassifier{oracle: o, window: window}
}

// Classify never fails: a refusal in the first user reply is Cold, anything
// the oracle cannot settle is Warm.
func (c *InterestClassifier) Classify(ctx context.Context, tr *model.Transcript, s *lead.Store) string {
	if first, ok := tr.At(1); ok && first.Role == model.RoleUser && IsRefusal(first.Text) {
		return model.InterestCold
	}

	p, err := prompts.RenderInterest(ctx, prompts.InterestVars{
		Transcript: tr.Tail(c.window),
		Known:      s.Summary(),
	})
	if err != nil {
		logx.Error().Err(err).Msg("interest prompt failed")
		return model.InterestWarm
	}

	out, err := c.oracle.Complete(oracle.WithCallSite(ctx, oracle.CallSiteInterest), p)
	if err != nil {
		logx.Warn().Err(err).Msg("interest classification failed, defaulting to Warm")
		return model.InterestWarm
	}
	if level := NormalizeInterest(out); level != "" {
		return level
	}
	return model.InterestWarm
}

// NormalizeInterest maps free text to Hot, Warm or Cold by substring, in
// that order of precedence. It returns "" when none match.
func NormalizeInterest(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "hot"):
		return model.InterestHot
	case strings.Contains(lower, "warm"):
		return model.InterestWarm
	case strings.Contains(lower, "cold"):
		return model.InterestCold
	default:
		return ""
	}
}
