package core

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "other language tag", in: "  ```javascript\n{\"a\":1}```  ", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "\n\t{\"a\":1}\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestNormalize_FencedObject(t *testing.T) {
	v, err := Normalize("```json\n{\"subject\":\"S\",\"body\":\"B\"}\n```")
	require.NoError(t, err)

	assert.Equal(t, "S", v.Subject)
	assert.Equal(t, "B", v.Body)
	assert.Nil(t, v.CTAText)
	assert.Nil(t, v.Confidence)
	assert.Nil(t, v.UsedTokens)
	_, err = uuid.Parse(v.ID)
	assert.NoError(t, err, "generated id should be a UUID")
	assert.JSONEq(t, `{"subject":"S","body":"B"}`, v.RawText)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "not json", raw: "not json", want: ErrParse},
		{name: "truncated object", raw: `{"subject": "S", "body": `, want: ErrParse},
		{name: "missing subject", raw: `{"body":"B"}`, want: ErrValidation},
		{name: "missing body", raw: `{"subject":"S"}`, want: ErrValidation},
		{name: "empty subject", raw: `{"subject":"  ","body":"B"}`, want: ErrValidation},
		{name: "non-string subject", raw: `{"subject":7,"body":"B"}`, want: ErrValidation},
		{name: "string value", raw: `"hello"`, want: ErrShape},
		{name: "number value", raw: `42`, want: ErrShape},
		{name: "empty list", raw: `[]`, want: ErrShape},
		{name: "list of strings", raw: `["a","b"]`, want: ErrShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Normalize(tt.raw)
			assert.Nil(t, v)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalize_ListTakesFirstObject(t *testing.T) {
	v, err := Normalize(`[{"subject":"First","body":"One"},{"subject":"Second","body":"Two"}]`)
	require.NoError(t, err)
	assert.Equal(t, "First", v.Subject)
	assert.JSONEq(t, `{"subject":"First","body":"One"}`, v.RawText)
}

func TestNormalize_ProseAroundObject(t *testing.T) {
	v, err := Normalize("Sure! Here is your email:\n{\"subject\":\"Hi\",\"body\":\"<p>Hello</p>\"}\nHope it helps.")
	require.NoError(t, err)
	assert.Equal(t, "Hi", v.Subject)
	assert.Equal(t, "<p>Hello</p>", v.Body)
}

func TestNormalize_OptionalFields(t *testing.T) {
	raw := `{
		"id": "variant-7",
		"subject": "S",
		"body": "<b>B</b>",
		"cta": "Book a call",
		"confidence": 0.82,
		"usedTokens": ["first_name", "company"]
	}`

	v, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "variant-7", v.ID)
	require.NotNil(t, v.CTAText)
	assert.Equal(t, "Book a call", *v.CTAText)
	require.NotNil(t, v.Confidence)
	assert.InDelta(t, 0.82, *v.Confidence, 1e-9)
	assert.Equal(t, []string{"first_name", "company"}, v.UsedTokens)
	assert.Contains(t, v.RawText, "<b>B</b>", "raw text keeps HTML unescaped")
}

func TestNormalize_KeyPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantCTA    *string
		wantTokens []string
	}{
		{
			name:    "cta_text wins over cta",
			raw:     `{"subject":"S","body":"B","cta_text":"Primary","cta":"Secondary"}`,
			wantCTA: strPtr("Primary"),
		},
		{
			name:    "empty cta_text falls back to cta",
			raw:     `{"subject":"S","body":"B","cta_text":"","cta":"Secondary"}`,
			wantCTA: strPtr("Secondary"),
		},
		{
			name:       "used_tokens wins over usedTokens",
			raw:        `{"subject":"S","body":"B","used_tokens":["a"],"usedTokens":["b"]}`,
			wantTokens: []string{"a"},
		},
		{
			name: "non-string tokens are dropped",
			raw:  `{"subject":"S","body":"B","used_tokens":[1,2]}`,
		},
		{
			name: "non-string cta is ignored",
			raw:  `{"subject":"S","body":"B","cta_text":5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCTA, v.CTAText)
			assert.Equal(t, tt.wantTokens, v.UsedTokens)
		})
	}
}

func TestNormalize_NonStringIDIsReplaced(t *testing.T) {
	v, err := Normalize(`{"id": 12, "subject":"S","body":"B"}`)
	require.NoError(t, err)
	_, err = uuid.Parse(v.ID)
	assert.NoError(t, err)
}

func TestNormalize_RoundTrip(t *testing.T) {
	cta := "Reply YES"
	original := &Variant{Subject: "Quick idea, Ana", Body: "<p>Hi Ana,</p><p>...</p>", CTAText: &cta}

	payload, err := json.Marshal(map[string]interface{}{
		"subject":  original.Subject,
		"body":     original.Body,
		"cta_text": *original.CTAText,
	})
	require.NoError(t, err)

	first, err := Normalize(string(payload))
	require.NoError(t, err)
	second, err := Normalize(first.RawText)
	require.NoError(t, err)

	for _, v := range []*Variant{first, second} {
		assert.Equal(t, original.Subject, v.Subject)
		assert.Equal(t, original.Body, v.Body)
		assert.Equal(t, original.CTAText, v.CTAText)
	}
	assert.Equal(t, first.RawText, second.RawText)
}

func strPtr(s string) *string { return &s }
