package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
)

type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a vision provider. baseURL is optional and points the
// client at a compatible endpoint.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = constants.DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Diagnose(ctx context.Context, img Image, lang models.Language) (models.DiagnosisRecord, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: Prompt(lang),
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL:    dataURL(img),
								Detail: openai.ImageURLDetailAuto,
							},
						},
					},
				},
			},
		},
	)
	if err != nil {
		return models.DiagnosisRecord{}, Failure(o.Name(), fmt.Errorf("failed to create chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return models.DiagnosisRecord{}, Failure(o.Name(), fmt.Errorf("empty response"))
	}

	rec, err := parseDiagnosis(resp.Choices[0].Message.Content)
	if err != nil {
		return models.DiagnosisRecord{}, Failure(o.Name(), err)
	}
	return rec, nil
}

func dataURL(img Image) string {
	mime := img.MIME
	if mime == "" {
		mime = constants.DefaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
