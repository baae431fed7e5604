package observers

import (
	"context"
	"strings"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	agentmodel "github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

type startKey struct{}

// newModelHandler logs model calls with their token usage and cost.
func newModelHandler(modelName string) *callbackHelper.ModelCallbackHandler {
	pricing := agentmodel.ResolvePricing(modelName)
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("component", "oracle").Str("node", info.Name).Str("model", modelName)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages)).Int("prompt_chars", promptChars(input.Messages))
			}
			ev.Msg("model call started")
			return context.WithValue(ctx, startKey{}, time.Now())
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			ev := logx.Debug().Str("component", "oracle").Str("node", info.Name).Str("model", modelName)
			if started, ok := ctx.Value(startKey{}).(time.Time); ok {
				ev = ev.Dur("elapsed", time.Since(started))
			}
			if output != nil && output.Message != nil {
				ev = ev.Int("reply_chars", len(strings.TrimSpace(output.Message.Content)))
				if meta := output.Message.ResponseMeta; meta != nil && meta.Usage != nil {
					_, _, total := agentmodel.ComputeCost(meta.Usage, pricing)
					ev = ev.Int("prompt_tokens", meta.Usage.PromptTokens).
						Int("completion_tokens", meta.Usage.CompletionTokens).
						Float64("cost_usd", total)
				}
			}
			ev.Msg("model call finished")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Str("component", "oracle").Str("node", info.Name).Str("model", modelName).Err(err).Msg("model call failed")
			return ctx
		},
	}
}

func promptChars(msgs []*schema.Message) int {
	n := 0
	for _, m := range msgs {
		if m != nil {
			n += len(m.Content)
		}
	}
	return n
}
