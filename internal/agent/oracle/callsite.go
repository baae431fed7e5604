package oracle

import "context"

// Call sites label oracle traffic in logs and metrics.
const (
	CallSiteExtraction = "extraction"
	CallSiteInterest   = "interest"
	CallSiteQuestion   = "question"
	CallSiteInference  = "inference"
	CallSiteScheduling = "scheduling"
	CallSiteFollowUp   = "followup"
	CallSiteCompletion = "completion"
	CallSiteUnknown    = "unknown"
)

type callSiteKey struct{}

// WithCallSite tags ctx with the name of the code path calling the oracle.
func WithCallSite(ctx context.Context, site string) context.Context {
	return context.WithValue(ctx, callSiteKey{}, site)
}

// CallSite returns the tag set by WithCallSite.
func CallSite(ctx context.Context) string {
	if s, ok := ctx.Value(callSiteKey{}).(string); ok && s != "" {
		return s
	}
	return CallSiteUnknown
}
