package oracle

import (
	"context"
	"time"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// Func adapts a plain function to model.Oracle.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

type timeoutOracle struct {
	next    model.Oracle
	timeout time.Duration
}

// WithTimeout bounds every call to next. A non-positive timeout returns next.
func WithTimeout(next model.Oracle, timeout time.Duration) model.Oracle {
	if timeout <= 0 {
		return next
	}
	return &timeoutOracle{next: next, timeout: timeout}
}

func (o *timeoutOracle) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.next.Complete(ctx, prompt)
}

type instrumented struct {
	next model.Oracle
}

// Instrumented records latency and outcome of every call, labelled by the
// call site carried on the context, and wraps failures with errx.WrapOracle.
func Instrumented(next model.Oracle) model.Oracle {
	return &instrumented{next: next}
}

func (o *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	site := CallSite(ctx)
	start := time.Now()
	out, err := o.next.Complete(ctx, prompt)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.OracleLatency.WithLabelValues(site, status).Observe(elapsed.Seconds())
	metrics.OracleCalls.WithLabelValues(site, status).Inc()

	if err != nil {
		logx.Warn().Str("call_site", site).Dur("elapsed", elapsed).Err(err).Msg("oracle call failed")
		return "", errx.WrapOracle(err)
	}
	logx.Debug().Str("call_site", site).Dur("elapsed", elapsed).Int("reply_chars", len(out)).Msg("oracle call")
	return out, nil
}
