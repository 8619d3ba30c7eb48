package generate

import (
	"fmt"
	"strings"
)

func solutionPrompt(req SolutionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are solving the competitive programming problem %q.\n\n", req.Title)
	fmt.Fprintf(&b, "Problem statement:\n%s\n\n", req.Statement)
	if req.Limits != "" {
		fmt.Fprintf(&b, "Grading limits: %s\n\n", req.Limits)
	}

	if req.Feedback != "" {
		b.WriteString("A previous solution was rejected by the grader.\n\n")
		if req.PriorSource != "" {
			fmt.Fprintf(&b, "Previous solution:\n```\n%s\n```\n\n", req.PriorSource)
		}
		fmt.Fprintf(&b, "Grader feedback:\n%s\n\n", req.Feedback)
		b.WriteString("Fix the issues the grader reported and produce a corrected solution.\n\n")
	}

	fmt.Fprintf(&b,
		"Write a complete, correct solution in %s. Read from standard input "+
			"and write to standard output. Respond with only the source code, "+
			"no explanation and no markdown fences.",
		req.Language,
	)

	return b.String()
}

func editorialPrompt(req EditorialRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write an editorial for the competitive programming problem %q.\n\n", req.Title)
	fmt.Fprintf(&b, "Problem statement:\n%s\n\n", req.Statement)
	fmt.Fprintf(&b, "This %s solution was verified correct by the grader:\n```\n%s\n```\n\n",
		req.Language, req.Source)
	b.WriteString(
		"Write the editorial in Spanish, in markdown. Explain the idea, the " +
			"algorithm and its complexity, then include the verified solution " +
			"in a code block. Respond with only the editorial markdown.",
	)

	return b.String()
}

// stripFences removes a single wrapping markdown code fence, language
// tag included, that models tend to add despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	}
	return s
}
