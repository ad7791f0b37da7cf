package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/rag/embedding"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

var dimension = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds a Gemini-backed embedder. The client is constructed
// explicitly and injected at the call-site; there is no cached instance.
func NewClient(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")

	if apikey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return nil, err
	}
	logger.Info("Google Embedding client created", "model", modelName)

	return &client{genAi: c, model: modelName, logger: logger}, nil
}

func (c *client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(texts) == 0 {
		return nil, nil
	}

	res, err := c.doCall(ctx, getContent(texts))
	if err != nil || res == nil {
		if isRateLimited(err, log) {
			time.Sleep(5 * time.Second)
			log.Debug("Retrying after rate limit")
			res, err = c.doCall(ctx, getContent(texts))
		}
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, err
		}
	}

	return collectVectors(res, len(texts))
}

// collectVectors pulls the vectors out of the response in request order,
// rejecting a nil or short reply before anyone dereferences it.
func collectVectors(res *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if res == nil {
		return nil, errors.New("empty embedding response")
	}
	if len(res.Embeddings) != want {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", want, len(res.Embeddings))
	}

	results := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		results = append(results, r.Values)
	}
	return results, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}

func getContent(texts []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: t}},
		})
	}
	return contents
}

func isRateLimited(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Error("Rate limit hit! ", "error", err)
			return true
		}
	}
	return false
}
