package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/labelscan/backend/internal/domain"
)

const visionMaxTokens = 800

// defaultVisionPrompt asks the model for a JSON description of the label.
// Prompt text is configuration and can be overridden via Config.
const defaultVisionPrompt = `You are reading a photo of a packaged food product. Reply with a single JSON object:
{"product_name": "...", "brand": "...", "net_weight": "...", "barcode": "...", "visible_text": ["..."], "confidence": "high|medium|low"}
Omit any field you cannot read, list the readable label text in visible_text, and reply with JSON only.`

// Config holds settings for the OpenAI-backed services
type Config struct {
	APIKey         string
	BaseURL        string // override for tests and proxies
	VisionModel    string
	SynthesisModel string
	VisionPrompt   string
}

// Client talks to the OpenAI chat completions API for both vision analysis
// and report synthesis.
type Client struct {
	api            *goopenai.Client
	logger         *logrus.Logger
	visionModel    string
	synthesisModel string
	visionPrompt   string
}

// NewClient creates a new OpenAI client
func NewClient(config Config, logger *logrus.Logger) *Client {
	clientConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	visionModel := config.VisionModel
	if visionModel == "" {
		visionModel = goopenai.GPT4o
	}
	synthesisModel := config.SynthesisModel
	if synthesisModel == "" {
		synthesisModel = goopenai.GPT4o
	}
	visionPrompt := config.VisionPrompt
	if visionPrompt == "" {
		visionPrompt = defaultVisionPrompt
	}

	return &Client{
		api:            goopenai.NewClientWithConfig(clientConfig),
		logger:         logger,
		visionModel:    visionModel,
		synthesisModel: synthesisModel,
		visionPrompt:   visionPrompt,
	}
}

// AnalyzeImage asks the vision model to read the packaging in the image and
// returns its raw reply.
func (c *Client) AnalyzeImage(ctx context.Context, imageURL string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     c.visionModel,
		MaxTokens: visionMaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type: goopenai.ChatMessagePartTypeText,
						Text: c.visionPrompt,
					},
					{
						Type: goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: goopenai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion returned no choices")
	}

	c.logger.WithFields(logrus.Fields{
		"model":  resp.Model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("vision completion finished")

	return resp.Choices[0].Message.Content, nil
}

// Complete runs the synthesis model over the gathered context and returns its
// raw reply.
func (c *Client) Complete(ctx context.Context, req *domain.CompletionRequest) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.synthesisModel,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("synthesis completion returned no choices")
	}

	c.logger.WithFields(logrus.Fields{
		"model":  resp.Model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("synthesis completion finished")

	return resp.Choices[0].Message.Content, nil
}

var (
	_ domain.VisionService    = (*Client)(nil)
	_ domain.SynthesisService = (*Client)(nil)
)
