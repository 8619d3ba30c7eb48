package generate

import (
	"context"
	"fmt"
)

// Ensure TemplateGenerator implements Generator interface.
var _ Generator = (*TemplateGenerator)(nil)

// TemplateGenerator emits deterministic content without calling any
// model. It backs the template generator mode for local runs against a
// mock judge, and serves as the fallback when the model fails so a
// generation outage degrades to placeholder editorials instead of
// aborting the workflow.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) GenerateSolution(
	_ context.Context,
	req SolutionRequest,
) (string, error) {
	switch req.Language {
	case "py2", "py3":
		return fmt.Sprintf(
			"# placeholder solution for %s\nprint('editorial placeholder')\n",
			req.ProblemAlias,
		), nil
	default:
		return fmt.Sprintf(
			"// placeholder solution for %s\n",
			req.ProblemAlias,
		), nil
	}
}

func (g *TemplateGenerator) GenerateEditorial(
	_ context.Context,
	req EditorialRequest,
) (string, error) {
	return fmt.Sprintf(
		"# Editorial: %s\n\n"+
			"El editorial detallado para este problema aún no está disponible.\n\n"+
			"La siguiente solución en %s fue verificada por el juez:\n\n"+
			"```%s\n%s\n```\n",
		req.Title, req.Language, req.Language, req.Source,
	), nil
}

// Ensure Fallback implements Generator interface.
var _ Generator = (*Fallback)(nil)

// Fallback tries Primary and falls back to Secondary when it errors.
// Both paths degrade: a placeholder solution will almost certainly be
// rejected, but the rejection still carries the item through grading
// and publication instead of aborting it.
type Fallback struct {
	Primary   Generator
	Secondary Generator
}

func (f *Fallback) GenerateSolution(
	ctx context.Context,
	req SolutionRequest,
) (string, error) {
	source, err := f.Primary.GenerateSolution(ctx, req)
	if err == nil {
		return source, nil
	}
	return f.Secondary.GenerateSolution(ctx, req)
}

func (f *Fallback) GenerateEditorial(
	ctx context.Context,
	req EditorialRequest,
) (string, error) {
	text, err := f.Primary.GenerateEditorial(ctx, req)
	if err == nil {
		return text, nil
	}
	return f.Secondary.GenerateEditorial(ctx, req)
}
