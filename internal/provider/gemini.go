package provider

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
)

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = constants.DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Diagnose(ctx context.Context, img Image, lang models.Language) (models.DiagnosisRecord, error) {
	model := g.client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.ImageData(imageFormat(img.MIME), img.Data), genai.Text(Prompt(lang)))
	if err != nil {
		return models.DiagnosisRecord{}, Failure(g.Name(), fmt.Errorf("failed to generate content: %w", err))
	}
	text, err := responseText(resp)
	if err != nil {
		return models.DiagnosisRecord{}, Failure(g.Name(), err)
	}
	rec, err := parseDiagnosis(text)
	if err != nil {
		return models.DiagnosisRecord{}, Failure(g.Name(), err)
	}
	return rec, nil
}

// responseText returns the first text part of the first candidate. The prompt
// asks for bare JSON; parseDiagnosis tolerates fences and prose around it.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

// imageFormat converts a MIME type to the bare format genai.ImageData expects.
func imageFormat(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpeg"
	}
}
