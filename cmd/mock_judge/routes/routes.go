package routes

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type apiError struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Parameter string `json:"parameter,omitempty"`
}

func errorResponse(c echo.Context, code int, message, parameter string) error {
	return c.JSON(code, apiError{
		Status:    "error",
		Error:     message,
		Parameter: parameter,
	})
}

// Login accepts any non-empty credential pair and hands back a token.
func (s *State) Login(c echo.Context) error {
	type requestData struct {
		Username string `form:"usernameOrEmail" validate:"required"`
		Password string `form:"password"        validate:"required"`
	}

	var rdata requestData
	if err := c.Bind(&rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "failed parsing request data", "")
	}
	if err := c.Validate(rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "loginRequired", "")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":     "ok",
		"auth_token": uuid.New().String(),
	})
}

// ProblemDetails serves the seeded problem record.
func (s *State) ProblemDetails(c echo.Context) error {
	type requestData struct {
		Alias string `form:"problem_alias" validate:"required"`
	}

	var rdata requestData
	if err := c.Bind(&rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "failed parsing request data", "")
	}
	if err := c.Validate(rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "parameterEmpty", "problem_alias")
	}

	s.mu.Lock()
	problem, ok := s.problems[rdata.Alias]
	s.mu.Unlock()
	if !ok {
		return errorResponse(c, http.StatusNotFound, "problemNotFound", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"title":      problem.Title,
		"alias":      problem.Alias,
		"statements": problem.Statements,
		"languages":  problem.Languages,
		"settings":   map[string]any{"limits": problem.Limits},
	})
}

// RunCreate queues a run for grading. A language outside the problem's
// list is rejected the way the real judge rejects it, naming the
// offending parameter.
func (s *State) RunCreate(c echo.Context) error {
	type requestData struct {
		Alias    string `form:"problem_alias" validate:"required"`
		Language string `form:"language"      validate:"required"`
		Source   string `form:"source"        validate:"required"`
	}

	var rdata requestData
	if err := c.Bind(&rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "failed parsing request data", "")
	}
	if err := c.Validate(rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "parameterEmpty", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	problem, ok := s.problems[rdata.Alias]
	if !ok {
		return errorResponse(c, http.StatusNotFound, "problemNotFound", "")
	}
	if len(problem.Languages) > 0 && !slices.Contains(problem.Languages, rdata.Language) {
		return errorResponse(c, http.StatusBadRequest, "parameterNotInExpectedSet", "language")
	}

	guid := uuid.New().String()
	s.runs[guid] = &run{problem: problem, pollsLeft: problem.QueuePolls}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"guid":   guid,
	})
}

// RunStatus reports queue progress, then the seeded terminal verdict.
func (s *State) RunStatus(c echo.Context) error {
	type requestData struct {
		GUID string `form:"run_alias" validate:"required"`
	}

	var rdata requestData
	if err := c.Bind(&rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "failed parsing request data", "")
	}
	if err := c.Validate(rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "parameterEmpty", "run_alias")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[rdata.GUID]
	if !ok {
		return errorResponse(c, http.StatusNotFound, "runNotFound", "")
	}

	if r.pollsLeft > 0 {
		r.pollsLeft--
		return c.JSON(http.StatusOK, map[string]any{
			"guid":   rdata.GUID,
			"status": "waiting",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"guid":    rdata.GUID,
		"status":  "ready",
		"verdict": r.problem.Verdict,
		"score":   r.problem.Score,
		"runtime": 120,
		"memory":  2048,
	})
}

// Solution serves the last published editorial for a locale.
func (s *State) Solution(c echo.Context) error {
	type requestData struct {
		Alias  string `form:"problem_alias" validate:"required"`
		Locale string `form:"lang"          validate:"required"`
	}

	var rdata requestData
	if err := c.Bind(&rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "failed parsing request data", "")
	}
	if err := c.Validate(rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "parameterEmpty", "")
	}

	s.mu.Lock()
	markdown, ok := s.solutions[solutionKey(rdata.Alias, rdata.Locale)]
	s.mu.Unlock()
	if !ok {
		return errorResponse(c, http.StatusNotFound, "problemSolutionNotExists", "")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"solution": map[string]string{
			"markdown": markdown,
		},
	})
}

// UpdateSolution stores an editorial revision for a locale.
func (s *State) UpdateSolution(c echo.Context) error {
	type requestData struct {
		Alias    string `form:"problem_alias" validate:"required"`
		Solution string `form:"solution"      validate:"required"`
		Message  string `form:"message"       validate:"required"`
		Locale   string `form:"lang"          validate:"required"`
	}

	var rdata requestData
	if err := c.Bind(&rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "failed parsing request data", "")
	}
	if err := c.Validate(rdata); err != nil {
		return errorResponse(c, http.StatusBadRequest, "parameterEmpty", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.problems[rdata.Alias]; !ok {
		return errorResponse(c, http.StatusNotFound, "problemNotFound", "")
	}
	s.solutions[solutionKey(rdata.Alias, rdata.Locale)] = rdata.Solution

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Arena answers the cache-busting reads the pipeline fires after a
// publish. Content does not matter, only that the route exists.
func (s *State) Arena(c echo.Context) error {
	return c.HTML(http.StatusOK, "<html><body>ok</body></html>")
}
