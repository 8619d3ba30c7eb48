package generate

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
)

var tracer = otel.Tracer("github.com/omegaup-tools/editorialgen/internal/generate")

// Ensure GenAIGenerator implements Generator interface.
var _ Generator = (*GenAIGenerator)(nil)

// GenAIGenerator produces solutions and editorials through Google's
// Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIGenerator{
		client: client,
		model:  model,
	}, nil
}

func (g *GenAIGenerator) GenerateSolution(
	ctx context.Context,
	req SolutionRequest,
) (string, error) {
	ctx, span := tracer.Start(ctx, "GenAIGenerator.GenerateSolution", trace.WithAttributes(
		attribute.String("problem", req.ProblemAlias),
		attribute.String("language", req.Language),
		attribute.Bool("retry", req.Feedback != ""),
	))
	defer span.End()

	text, err := g.generate(ctx, solutionPrompt(req))
	if err != nil {
		err = pipelineerrors.GenerationError{Kind: "solution", Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate solution")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "generated solution")
	return stripFences(text), nil
}

func (g *GenAIGenerator) GenerateEditorial(
	ctx context.Context,
	req EditorialRequest,
) (string, error) {
	ctx, span := tracer.Start(ctx, "GenAIGenerator.GenerateEditorial", trace.WithAttributes(
		attribute.String("problem", req.ProblemAlias),
	))
	defer span.End()

	text, err := g.generate(ctx, editorialPrompt(req))
	if err != nil {
		err = pipelineerrors.GenerationError{Kind: "editorial", Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate editorial")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "generated editorial")
	return text, nil
}

func (g *GenAIGenerator) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("genai returned empty content")
	}

	return text, nil
}
