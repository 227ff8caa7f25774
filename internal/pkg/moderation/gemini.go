package moderation

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// Instruction builds the classification prompt for a description.
func Instruction(description string) string {
	return fmt.Sprintf(`Analyze this image and the following description: %q.
Is this a genuine civic issue related to public infrastructure (road, water, electricity, waste, footpath, public park, etc.)?
Return the answer in JSON format with "isValid" (boolean), "category" (string), and "reason" (string).
Strictly reject selfies, random objects, indoor house photos, or unrelated content.`, description)
}

// verdictSchema constrains the model output to the verdict object.
var verdictSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isValid":  {Type: genai.TypeBoolean},
		"category": {Type: genai.TypeString},
		"reason":   {Type: genai.TypeString},
	},
	PropertyOrdering: []string{"isValid", "category", "reason"},
	Required:         []string{"isValid", "category", "reason"},
}

// GeminiConfig configures the Gemini classifier.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint.
	BaseURL string
}

// GeminiClassifier classifies submissions with a Gemini multimodal model.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a classifier backed by the Gemini API.
func NewGeminiClassifier(ctx context.Context, cfg GeminiConfig) (*GeminiClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClassifier{client: client, model: cfg.Model}, nil
}

// Classify sends the image and instruction in one request and parses the structured reply.
func (g *GeminiClassifier) Classify(ctx context.Context, img Image, description string) (Verdict, error) {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, mime),
			genai.NewPartFromText(Instruction(description)),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   verdictSchema,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("gemini generate content: %w", err)
	}

	return ParseVerdict(resp.Text())
}
