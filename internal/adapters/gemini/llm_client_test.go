package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestFirstCandidateText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "nil response", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name:    "blocked candidate",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			wantErr: true,
		},
		{
			name: "text parts joined",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"subject":`), genai.Text(`"Hi"}`)}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
			}},
			want: `{"subject":"Hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstCandidateText(tt.resp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyError(t *testing.T) {
	err := classifyError(&googleapi.Error{Code: 429, Message: "quota exceeded"})

	var mcErr *core.ModelCallError
	require.ErrorAs(t, err, &mcErr)
	assert.Equal(t, providerName, mcErr.Provider)
	assert.Equal(t, 429, mcErr.StatusCode)
	assert.Equal(t, "quota exceeded", mcErr.Excerpt)
	assert.ErrorIs(t, err, core.ErrModelCall)

	plain := classifyError(errors.New("dial tcp: connection refused"))
	require.ErrorAs(t, plain, &mcErr)
	assert.Zero(t, mcErr.StatusCode)
}
