package souvenir

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// NoTextMessage replaces an empty extraction result.
	NoTextMessage = "Bedrockからの応答はありましたが、テキストを抽出できませんでした。"
	// ParseFailedMessage is returned when the response lacks the family's text field.
	ParseFailedMessage = "Bedrockからの応答をパースできませんでした。"

	rawPreviewRunes = 200
)

var (
	errInvalidResponseJSON = errors.New("model response is not valid JSON")
	// errTextFieldMissing tells ExtractText the response carried no text field,
	// as opposed to an empty one.
	errTextFieldMissing  = errors.New("model response has no text field")
	errResponseNotObject = errors.New("model response is not a JSON object")
)

// Family is one provider family on Bedrock. The request builder and the
// response parser of a family always travel together, so a model id resolves
// to both or to neither.
type Family struct {
	// Name is used in logs and metrics.
	Name string
	// Prefix is matched against the configured model id.
	Prefix string
	// BuildRequest returns the JSON-serializable request envelope for prompt.
	BuildRequest func(prompt string) any
	// ParseResponse extracts generated text from the raw response body. It
	// returns errTextFieldMissing when the text field is absent. A nil parser
	// makes ExtractText fall back to a preview of the raw response.
	ParseResponse func(raw []byte) (string, error)
}

// Matches reports whether modelID belongs to the family.
func (f *Family) Matches(modelID string) bool {
	return f.Prefix != "" && strings.HasPrefix(modelID, f.Prefix)
}

// Claude Messages API on Bedrock.

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Messages         []claudeMessage `json:"messages"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	AnthropicVersion string          `json:"anthropic_version"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []json.RawMessage `json:"content"`
}

// ClaudeFamily covers anthropic.claude-* models.
var ClaudeFamily = Family{
	Name:   "claude",
	Prefix: "anthropic.claude-",
	BuildRequest: func(prompt string) any {
		return claudeRequest{
			Messages:         []claudeMessage{{Role: "user", Content: prompt}},
			MaxTokens:        1000,
			Temperature:      0.7,
			AnthropicVersion: "bedrock-2023-05-31",
		}
	},
	ParseResponse: func(raw []byte) (string, error) {
		var resp claudeResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode claude response: %w", err)
		}
		var sb strings.Builder
		for _, item := range resp.Content {
			var block claudeContentBlock
			// Non-object entries are skipped, like any non-text block.
			if err := json.Unmarshal(item, &block); err != nil {
				continue
			}
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	},
}

// Titan Text on Bedrock.

type titanGenerationConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
}

type titanRequest struct {
	InputText            string                `json:"inputText"`
	TextGenerationConfig titanGenerationConfig `json:"textGenerationConfig"`
}

type titanResponse struct {
	Results []json.RawMessage `json:"results"`
}

// TitanTextFamily covers amazon.titan-text-* models.
var TitanTextFamily = Family{
	Name:   "titan-text",
	Prefix: "amazon.titan-text-",
	BuildRequest: func(prompt string) any {
		return titanRequest{
			InputText: prompt,
			TextGenerationConfig: titanGenerationConfig{
				MaxTokenCount: 500,
				Temperature:   0.7,
				TopP:          0.9,
			},
		}
	},
	ParseResponse: func(raw []byte) (string, error) {
		var resp *titanResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode titan response: %w", err)
		}
		if resp == nil {
			return "", errResponseNotObject
		}
		if len(resp.Results) == 0 {
			return "", errTextFieldMissing
		}
		var first map[string]json.RawMessage
		if err := json.Unmarshal(resp.Results[0], &first); err != nil || first == nil {
			return "", errTextFieldMissing
		}
		return textField(first, "outputText")
	},
}

// Meta Llama on Bedrock.

type llamaRequest struct {
	Prompt      string  `json:"prompt"`
	MaxGenLen   int     `json:"max_gen_len"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// LlamaFamily covers meta.llama* models.
var LlamaFamily = Family{
	Name:   "llama",
	Prefix: "meta.llama",
	BuildRequest: func(prompt string) any {
		return llamaRequest{
			Prompt:      prompt,
			MaxGenLen:   512,
			Temperature: 0.7,
			TopP:        0.9,
		}
	},
	ParseResponse: func(raw []byte) (string, error) {
		var resp map[string]json.RawMessage
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decode llama response: %w", err)
		}
		if resp == nil {
			return "", errResponseNotObject
		}
		return textField(resp, "generation")
	},
}

// textField reads a string field from a decoded object. A null value counts as
// empty text; an absent or non-string value as a missing field.
func textField(fields map[string]json.RawMessage, key string) (string, error) {
	value, ok := fields[key]
	if !ok {
		return "", errTextFieldMissing
	}
	var text *string
	if err := json.Unmarshal(value, &text); err != nil {
		return "", errTextFieldMissing
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

// DefaultFamilies returns the families supported out of the box, in match order.
func DefaultFamilies() []Family {
	return []Family{ClaudeFamily, TitanTextFamily, LlamaFamily}
}

// ResolveFamily returns the first family whose prefix matches modelID.
func ResolveFamily(modelID string, families []Family) (*Family, bool) {
	for i := range families {
		if families[i].Matches(modelID) {
			return &families[i], true
		}
	}
	return nil, false
}

// ExtractText turns a raw model response into the recommendation text.
// The body must be JSON whatever the family. A family without a parser (or a
// nil family) yields a preview of the raw response instead of failing.
func ExtractText(family *Family, modelID string, raw []byte) (string, error) {
	if !json.Valid(raw) {
		return "", errInvalidResponseJSON
	}

	var (
		text string
		err  error
	)
	if family == nil || family.ParseResponse == nil {
		text = fmt.Sprintf("応答のパースが未対応のモデルです (%s). Raw Response: %s...", modelID, truncateRunes(string(raw), rawPreviewRunes))
	} else {
		text, err = family.ParseResponse(raw)
		if errors.Is(err, errTextFieldMissing) {
			return ParseFailedMessage, nil
		}
		if err != nil {
			return "", err
		}
	}

	if text == "" {
		return NoTextMessage, nil
	}
	return text, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
