package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Reply    string   `json:"reply"`
	Weeks    float64  `json:"weeks"`
	Insights []string `json:"insights"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"reply":"Feito","weeks":4}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Feito", result.Reply)
	assert.Equal(t, 4.0, result.Weeks)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"reply\":\"ok\",\"weeks\":2}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Reply)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Aqui está:\n{\"reply\":\"ok\"}\nQualquer dúvida, avise."
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Reply)
}

func TestExtractJSON_NestedBracesAndBracesInStrings(t *testing.T) {
	type nested struct {
		Reply    string            `json:"reply"`
		Timeline map[string]string `json:"timeline"`
	}
	raw := `{"reply":"use {chaves} e \"aspas\"","timeline":{"startDate":"2025-01-06"}}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `use {chaves} e "aspas"`, result.Reply)
	assert.Equal(t, "2025-01-06", result.Timeline["startDate"])
}

func TestExtractJSON_Comments(t *testing.T) {
	raw := "{\n  \"reply\": \"http://x.y/z\", // link\n  /* block */ \"weeks\": 3\n}"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://x.y/z", result.Reply, "slashes inside strings are kept")
	assert.Equal(t, 3.0, result.Weeks)
}

func TestExtractJSON_LeadingDecimal(t *testing.T) {
	result, err := ExtractJSON[testPayload](`{"weeks": .5}`, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Weeks)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload]("Não entendi.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"reply":"x", broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"reply":"x"`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	validator := func(p testPayload) error {
		if p.Weeks < 1 {
			return fmt.Errorf("weeks must be at least 1, got %v", p.Weeks)
		}
		return nil
	}
	_, err := ExtractJSON(`{"weeks":0}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_ValidationSuccess(t *testing.T) {
	validator := func(p testPayload) error {
		if p.Weeks < 1 {
			return fmt.Errorf("weeks out of range")
		}
		return nil
	}
	result, err := ExtractJSON(`{"reply":"ok","weeks":2,"insights":["a","b"]}`, validator)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Insights)
}
