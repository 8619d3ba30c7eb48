// Package generate produces candidate solutions and editorial prose for
// a problem, either through the Gemini API or a deterministic template.
package generate

import (
	"context"
)

// SolutionRequest describes one solution generation call. Feedback and
// PriorSource are empty on the first attempt and carry the previous
// attempt's diagnostics on a retry. Limits is a pre-rendered summary of
// the problem's grading limits, empty when the judge reports none.
type SolutionRequest struct {
	ProblemAlias string
	Title        string
	Statement    string
	Limits       string
	Language     string
	PriorSource  string
	Feedback     string
}

// EditorialRequest describes one editorial generation call. Source is
// the verified solution the editorial explains.
type EditorialRequest struct {
	ProblemAlias string
	Title        string
	Statement    string
	Language     string
	Source       string
}

// Generator produces source code and editorial markdown.
//
//go:generate go run go.uber.org/mock/mockgen -destination=./mock/generate.go -package=mock . Generator
type Generator interface {
	GenerateSolution(ctx context.Context, req SolutionRequest) (string, error)
	GenerateEditorial(ctx context.Context, req EditorialRequest) (string, error)
}
