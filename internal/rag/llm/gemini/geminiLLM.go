package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

type llmClient struct {
	client *genai.Client
	model  string
	logger *logger_i.Logger
}

func NewClient(ctx context.Context, modelName string, apikey string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")

	if apikey == "" {
		return nil, &llm.LLMError{Provider: "gemini", Err: errors.New("missing GOOGLE_API_KEY")}
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return nil, &llm.LLMError{Provider: "gemini", Err: err}
	}

	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, model: modelName, logger: logger}, nil
}

func (c *llmClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	// gemini takes the system prompt out of band
	var systemParts []string
	var contents []*genai.Content
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			systemParts = append(systemParts, m.Content)
			continue
		}
		role := genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	contentConfig := &genai.GenerateContentConfig{}
	if len(systemParts) > 0 {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(systemParts, "\n")}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", &llm.LLMError{Provider: "gemini", Err: err}
	}
	return result.Text(), nil
}
