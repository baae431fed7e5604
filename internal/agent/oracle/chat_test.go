package oracle

import (
	"context"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoModel struct {
	seen []*schema.Message
}

func (m *echoModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.seen = input
	return &schema.Message{
		Role:    schema.Assistant,
		Content: "  reply to " + input[len(input)-1].Content + "  ",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
	}, nil
}

func (m *echoModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestChatOracleSendsSystemAndPrompt(t *testing.T) {
	cm := &echoModel{}
	o, err := NewChatOracle(context.Background(), cm, "gemini-2.5-flash", "You are Rachel.")
	require.NoError(t, err)

	out, err := o.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "reply to hello", out)

	require.Len(t, cm.seen, 2)
	assert.Equal(t, schema.System, cm.seen[0].Role)
	assert.Equal(t, "You are Rachel.", cm.seen[0].Content)
	assert.Equal(t, schema.User, cm.seen[1].Role)
}

func TestChatOracleWithoutSystem(t *testing.T) {
	cm := &echoModel{}
	o, err := NewChatOracle(context.Background(), cm, "m", "")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Len(t, cm.seen, 1)
}

func TestNewChatOracleRejectsNilModel(t *testing.T) {
	_, err := NewChatOracle(context.Background(), nil, "m", "")
	assert.Error(t, err)
}
