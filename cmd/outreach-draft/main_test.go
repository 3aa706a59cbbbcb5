package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mikey/llm-outreach/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantVars  *int
		wantErr   bool
	}{
		{
			name:      "bare lead",
			input:     `{"first_name":"Maya","company":"Lopez Bakery"}`,
			wantFirst: "Maya",
		},
		{
			name:      "full request",
			input:     `{"lead":{"first_name":"Ada"},"variants":3,"tone":"Bold"}`,
			wantFirst: "Ada",
			wantVars:  intPtr(3),
		},
		{name: "not json", input: `first_name=Maya`, wantErr: true},
		{name: "unknown lead field", input: `{"first_name":"Maya","favourite_color":"red"}`, wantErr: true},
		{name: "array", input: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := decodeRequest(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, req.Lead.FirstName)
			assert.Equal(t, tt.wantVars, req.Variants)
		})
	}
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, &core.GenerationResult{Variants: []*core.Variant{{ID: "v1", Subject: "Hi", Body: "Body"}}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"subject": "Hi"`)
	assert.Contains(t, out, `"raw_text": null`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func intPtr(i int) *int { return &i }
