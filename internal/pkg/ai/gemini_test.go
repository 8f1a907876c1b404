package ai

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextOf(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Aim for "),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("two A grades. "),
			}},
		}},
	}

	got, err := textOf(resp)
	require.NoError(t, err)
	assert.Equal(t, "Aim for two A grades.", got)
}

func TestTextOfEmpty(t *testing.T) {
	_, err := textOf(nil)
	assert.ErrorIs(t, err, ErrNoAnswer)

	_, err = textOf(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorIs(t, err, ErrNoAnswer)

	_, err = textOf(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}},
	}}})
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-1.5-flash")
	assert.Error(t, err)
}
