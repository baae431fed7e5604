package oracle

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTimeoutCancelsSlowCalls(t *testing.T) {
	slow := Func(func(ctx context.Context, _ string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	})

	_, err := Instrumented(WithTimeout(slow, 10*time.Millisecond)).Complete(context.Background(), "p")
	require.Error(t, err)
	status, _ := errx.StatusOf(err)
	assert.Equal(t, http.StatusGatewayTimeout, status)
}

func TestWithTimeoutZeroIsPassThrough(t *testing.T) {
	o := reply("ok", nil)
	assert.IsType(t, Func(nil), WithTimeout(o, 0))
}

func TestInstrumentedPassesThrough(t *testing.T) {
	ctx := WithCallSite(context.Background(), CallSiteQuestion)
	var gotSite string
	o := Instrumented(Func(func(ctx context.Context, _ string) (string, error) {
		gotSite = CallSite(ctx)
		return "hello", nil
	}))

	out, err := o.Complete(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, CallSiteQuestion, gotSite)
}

func TestInstrumentedWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Instrumented(reply("", boom)).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, boom)
	status, _ := errx.StatusOf(err)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestCallSiteDefault(t *testing.T) {
	assert.Equal(t, CallSiteUnknown, CallSite(context.Background()))
}
