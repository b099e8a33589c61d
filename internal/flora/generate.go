package flora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultGeneratorTimeout bounds a single structured-generation call.
const DefaultGeneratorTimeout = 30 * time.Second

// Generator is the client for the external structured-generation
// service. It sends a prompt plus a schema describing the expected
// plant shape, and treats whatever comes back as untrusted input.
type Generator struct {
	url    string
	client *http.Client
	logger Logger
}

// NewGenerator creates a generator client for the given endpoint URL.
func NewGenerator(url string) *Generator {
	return NewGeneratorWithLogger(url, NewNoOpLogger())
}

// NewGeneratorWithLogger creates a generator client with an injected logger.
func NewGeneratorWithLogger(url string, logger Logger) *Generator {
	return &Generator{
		url:    url,
		client: &http.Client{Timeout: DefaultGeneratorTimeout},
		logger: logger,
	}
}

// generateRequest is the wire request to the generation service.
type generateRequest struct {
	Prompt string         `json:"prompt"`
	Schema map[string]any `json:"schema"`
}

// generateResponse is the wire response from the generation service.
type generateResponse struct {
	Object json.RawMessage `json:"object"`
}

// BuildPrompt formats a plant description into a generation prompt that
// enumerates the full closed vocabularies, so the generator is steered
// toward valid enumeration members. This steering is advisory only;
// the response is validated regardless.
func BuildPrompt(description string) string {
	var sb strings.Builder
	sb.WriteString("Generate a plant structure for the following description: ")
	sb.WriteString(strings.TrimSpace(description))
	sb.WriteString("\n\nEvery part type must be one of: ")
	sb.WriteString(joinVocab(allPartTypes))
	sb.WriteString(".\nEvery growth rate must be one of: ")
	sb.WriteString(joinVocab(allGrowthRates))
	sb.WriteString(".\nEvery special trait, when present, must be one of: ")
	sb.WriteString(joinVocab(allSpecialTraits))
	sb.WriteString(".\nGive each part a color, a size around 20, and a position with x and y between 100 and 300.")
	return sb.String()
}

func joinVocab[T ~string](values []T) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = string(v)
	}
	return strings.Join(strs, ", ")
}

// PlantSchema returns a JSON-schema-like description of the expected
// response object, mirroring PlantConfig.
func PlantSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"parts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"type":  map[string]any{"type": "string", "enum": vocabStrings(allPartTypes)},
						"color": map[string]any{"type": "string"},
						"size":  map[string]any{"type": "number"},
						"position": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"x": map[string]any{"type": "number"},
								"y": map[string]any{"type": "number"},
							},
							"required": []string{"x", "y"},
						},
						"growthRate": map[string]any{"type": "string", "enum": vocabStrings(allGrowthRates)},
						"special":    map[string]any{"type": "string", "enum": vocabStrings(allSpecialTraits)},
					},
					"required": []string{"type", "color", "size", "position"},
				},
			},
		},
		"required": []string{"name", "description", "parts"},
	}
}

func vocabStrings[T ~string](values []T) []string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = string(v)
	}
	return strs
}

// Generate asks the external service for a plant structure matching
// the description and returns the validated wire config. The empty
// description guard fires before any request is issued; every failure
// after that point is wrapped as a generation failure.
func (g *Generator) Generate(ctx context.Context, description string) (PlantConfig, error) {
	if strings.TrimSpace(description) == "" {
		return PlantConfig{}, newError(ErrEmptyDescription, "plant description is empty")
	}

	body, err := json.Marshal(generateRequest{
		Prompt: BuildPrompt(description),
		Schema: PlantSchema(),
	})
	if err != nil {
		return PlantConfig{}, wrapError(ErrGenerationFailed, err, "failed to encode generation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return PlantConfig{}, wrapError(ErrGenerationFailed, err, "failed to create generation request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return PlantConfig{}, wrapError(ErrGenerationFailed, err, "generation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PlantConfig{}, newError(ErrGenerationFailed, "generation service returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return PlantConfig{}, wrapError(ErrGenerationFailed, err, "failed to decode generation response")
	}
	if len(gr.Object) == 0 {
		return PlantConfig{}, newError(ErrGenerationFailed, "generation response has no object")
	}

	var cfg PlantConfig
	if err := json.Unmarshal(gr.Object, &cfg); err != nil {
		return PlantConfig{}, wrapError(ErrGenerationFailed, err, "generated object is not a plant structure")
	}

	if err := ValidatePlantConfig(cfg); err != nil {
		g.logger.Warnf("generated plant rejected: %v", err)
		return PlantConfig{}, wrapError(ErrGenerationFailed, err, "generated plant failed validation")
	}

	g.logger.Debugf("generation succeeded: name=%q parts=%d", cfg.Name, len(cfg.Parts))
	return cfg, nil
}

// String identifies the generator endpoint for logging.
func (g *Generator) String() string {
	return fmt.Sprintf("generator(%s)", g.url)
}
