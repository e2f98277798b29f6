package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost_KnownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}
	cost := u.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80+2.00, cost, 1e-9)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.Zero(t, u.EstimateCost("not-a-model"))
}

func TestEstimateCost_ZeroUsage(t *testing.T) {
	assert.Zero(t, TokenUsage{}.EstimateCost("claude-sonnet-4-5-20250929"))
}

func TestToSDKMessages_TextAndImage(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Blocks: []ContentBlock{
			{Type: "image", MediaType: "image/jpeg", Data: "aGVsbG8="},
			{Type: "text", Text: "read this table"},
		}},
		{Role: "assistant", Blocks: []ContentBlock{
			{Type: "text", Text: "{\"has_reference_rates\": true}"},
		}},
	})

	assert.Len(t, msgs, 2)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Len(t, msgs[0].Content, 2)
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Len(t, msgs[1].Content, 1)
}
