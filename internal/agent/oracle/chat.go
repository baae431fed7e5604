// Package oracle adapts eino chat models to the agent's text-in text-out
// Oracle port and provides decorators and a structured-output helper.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/observers"
	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// GeminiConfig holds the model settings for NewGeminiOracle.
type GeminiConfig struct {
	Model model.OracleModelConfig
	// System is sent as the system message on every call.
	System string
}

// ChatOracle runs each prompt through a compiled eino chain:
// prompt -> [system, user] messages -> chat model.
type ChatOracle struct {
	runnable  compose.Runnable[string, *schema.Message]
	modelName string
}

// NewGeminiClient creates the shared genai client.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiOracle builds a Gemini chat model and wraps it in a ChatOracle.
func NewGeminiOracle(ctx context.Context, client *genai.Client, cfg GeminiConfig) (*ChatOracle, error) {
	if client == nil {
		return nil, errors.New("gemini client is nil")
	}
	mc := cfg.Model
	gcfg := &gemini.Config{
		Client:      client,
		Model:       mc.Model,
		Temperature: &mc.Temperature,
		MaxTokens:   &mc.MaxTokens,
	}
	if mc.ThinkingBudget > 0 {
		gcfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(mc.ThinkingBudget),
		}
	}

	cm, err := gemini.NewChatModel(ctx, gcfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating oracle chat model")
		return nil, fmt.Errorf("error creating oracle chat model: %w", err)
	}
	return NewChatOracle(ctx, cm, mc.Model, cfg.System)
}

// NewChatOracle compiles the oracle chain around any eino chat model.
func NewChatOracle(ctx context.Context, cm einomodel.BaseChatModel, modelName, system string) (*ChatOracle, error) {
	if cm == nil {
		return nil, errors.New("chat model is nil")
	}

	toMessages := compose.InvokableLambda(func(ctx context.Context, prompt string) ([]*schema.Message, error) {
		msgs := make([]*schema.Message, 0, 2)
		if strings.TrimSpace(system) != "" {
			msgs = append(msgs, schema.SystemMessage(system))
		}
		return append(msgs, schema.UserMessage(prompt)), nil
	})

	runnable, err := compose.NewChain[string, *schema.Message]().
		AppendLambda(toMessages, compose.WithNodeName("to_messages")).
		AppendChatModel(cm, compose.WithNodeName("oracle_model")).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile oracle chain: %w", err)
	}

	logx.Debug().Str("model", modelName).Msg("Oracle chain compiled")
	return &ChatOracle{runnable: runnable, modelName: modelName}, nil
}

// Complete sends prompt and returns the model's text reply.
func (o *ChatOracle) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := o.runnable.Invoke(ctx, prompt, compose.WithCallbacks(observers.NewAllCallbacks(o.modelName)))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	if meta := out.ResponseMeta; meta != nil && meta.Usage != nil {
		metrics.OracleTokens.WithLabelValues(o.modelName, "input").Add(float64(meta.Usage.PromptTokens))
		metrics.OracleTokens.WithLabelValues(o.modelName, "output").Add(float64(meta.Usage.CompletionTokens))
		metrics.OracleTokens.WithLabelValues(o.modelName, "total").Add(float64(meta.Usage.TotalTokens))
	}
	return strings.TrimSpace(out.Content), nil
}
