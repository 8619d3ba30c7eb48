package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

var tracer = otel.Tracer("github.com/omegaup-tools/editorialgen/internal/judge")

// Ensure Client implements Grader interface.
var _ Grader = (*Client)(nil)

// Grader is the surface the workflow needs from the judge. The production
// implementation is Client; tests stand up an echo server instead.
//
//go:generate go run go.uber.org/mock/mockgen -destination=./mock/judge.go -package=mock . Grader
type Grader interface {
	Login(ctx context.Context, username, password string) error
	ProblemDetails(ctx context.Context, alias string) (*ProblemDetails, error)
	Submit(ctx context.Context, sub types.Submission) (types.JobHandle, error)
	RunStatus(ctx context.Context, handle types.JobHandle) (*RunStatus, error)
	Solution(ctx context.Context, alias, locale string) (string, error)
	UpdateSolution(ctx context.Context, alias, locale, markdown, message string) error
	InvalidateCaches(ctx context.Context, alias string, locales []string)
}

// ProblemDetails is the subset of the problem record the pipeline reads.
type ProblemDetails struct {
	Title      string            `json:"title"`
	Alias      string            `json:"alias"`
	Statements map[string]string `json:"statements"`
	Languages  []string          `json:"languages"`
	Settings   ProblemSettings   `json:"settings"`
}

// ProblemSettings carries the grading limits the judge applies. Values
// are heterogeneous (durations as strings, sizes as numbers) so they
// stay untyped until rendered into a prompt.
type ProblemSettings struct {
	Limits map[string]any `json:"limits"`
}

// RunStatus is one raw poll of an in-flight grading job. Status values
// other than ready, done, error and compile_error mean the job is still
// in the queue.
type RunStatus struct {
	GUID         string  `json:"guid"`
	Status       string  `json:"status"`
	Verdict      string  `json:"verdict"`
	Score        float64 `json:"score"`
	RuntimeMs    int64   `json:"runtime"`
	MemoryKB     int64   `json:"memory"`
	Execution    string  `json:"execution"`
	Output       string  `json:"output"`
	CompileError string  `json:"compile_error"`
}

// Terminal reports whether the grader is finished with the run.
func (r *RunStatus) Terminal() bool {
	switch r.Status {
	case "ready", "done", "error", "compile_error":
		return true
	default:
		return false
	}
}

type apiError struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	ErrorName string `json:"errorname"`
	Parameter string `json:"parameter"`
}

type Client struct {
	client *http.Client
	base   *url.URL
	public *url.URL
	clock  func() time.Time
}

// NewClient wires a judge client against base. public is the
// browser-facing frontend used for cache busting; pass "" to reuse base.
// The provided http.Client gains a cookie jar so the login session
// persists across calls.
func NewClient(base, public string, client *http.Client) (*Client, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse judge url: %w", err)
	}

	publicURL := baseURL
	if public != "" {
		publicURL, err = url.Parse(public)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public url: %w", err)
		}
	}

	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.Jar = jar
	}

	return &Client{
		client: client,
		base:   baseURL,
		public: publicURL,
		clock:  time.Now,
	}, nil
}

// Login opens an authenticated session. Every other call reuses the
// session cookie it sets; a failure here is fatal for the whole run.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Client.Login", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	form := url.Values{}
	form.Set("usernameOrEmail", username)
	form.Set("password", password)

	var resp struct {
		AuthToken string `json:"auth_token"`
	}
	if err := c.postForm(ctx, "/api/user/login/", form, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login rejected")
		return pipelineerrors.AuthenticationError{Err: err}
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "session established")
	return nil
}

// ProblemDetails fetches title, statements and accepted languages.
func (c *Client) ProblemDetails(
	ctx context.Context,
	alias string,
) (*ProblemDetails, error) {
	ctx, span := tracer.Start(ctx, "Client.ProblemDetails", trace.WithAttributes(
		attribute.String("problem", alias),
	))
	defer span.End()

	form := url.Values{}
	form.Set("problem_alias", alias)

	var details ProblemDetails
	if err := c.postForm(ctx, "/api/problem/details/", form, &details); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch problem details")
		return nil, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched problem details")
	return &details, nil
}

// Submit sends one solution for grading and returns the grader's opaque
// handle. A rejection naming the language parameter surfaces as
// LanguageUnsupportedError so callers can classify the problem as
// skipped rather than failed.
func (c *Client) Submit(
	ctx context.Context,
	sub types.Submission,
) (types.JobHandle, error) {
	ctx, span := tracer.Start(ctx, "Client.Submit", trace.WithAttributes(
		attribute.String("problem", sub.ProblemAlias),
		attribute.String("language", sub.Language),
		attribute.Int("attempt", sub.AttemptIndex),
	))
	defer span.End()

	form := url.Values{}
	form.Set("problem_alias", sub.ProblemAlias)
	form.Set("language", sub.Language)
	form.Set("source", sub.Source)

	var resp struct {
		GUID string `json:"guid"`
	}
	err := c.postForm(ctx, "/api/run/create/", form, &resp)
	if err != nil {
		var apiErr pipelineerrors.ValidationError
		if errors.As(err, &apiErr) && apiErr.Message == "language" {
			err = pipelineerrors.LanguageUnsupportedError{
				ProblemAlias: sub.ProblemAlias,
				Language:     sub.Language,
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission rejected")
		return "", err
	}
	if resp.GUID == "" {
		err = pipelineerrors.ValidationError{
			Op:      "run/create",
			Message: "no run handle in response",
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission rejected")
		return "", err
	}

	span.AddEvent("submitted", trace.WithAttributes(
		attribute.String("guid", resp.GUID),
	))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "submitted run")
	return types.JobHandle(resp.GUID), nil
}

// RunStatus reads the grader's current state for a run.
func (c *Client) RunStatus(
	ctx context.Context,
	handle types.JobHandle,
) (*RunStatus, error) {
	ctx, span := tracer.Start(ctx, "Client.RunStatus", trace.WithAttributes(
		attribute.String("guid", string(handle)),
	))
	defer span.End()

	form := url.Values{}
	form.Set("run_alias", string(handle))

	var status RunStatus
	if err := c.postForm(ctx, "/api/run/status/", form, &status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read run status")
		return nil, err
	}

	span.AddEvent("polled", trace.WithAttributes(
		attribute.String("status", status.Status),
		attribute.String("verdict", status.Verdict),
	))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "read run status")
	return &status, nil
}

// Solution reads the published editorial for one locale. The request
// carries a timestamp parameter so intermediate caches never serve a
// pre-publication copy.
func (c *Client) Solution(
	ctx context.Context,
	alias, locale string,
) (string, error) {
	ctx, span := tracer.Start(ctx, "Client.Solution", trace.WithAttributes(
		attribute.String("problem", alias),
		attribute.String("locale", locale),
	))
	defer span.End()

	form := url.Values{}
	form.Set("problem_alias", alias)
	form.Set("lang", locale)
	form.Set("t", strconv.FormatInt(c.clock().UnixMilli(), 10))

	var resp struct {
		Solution struct {
			Markdown string `json:"markdown"`
		} `json:"solution"`
	}
	if err := c.postForm(ctx, "/api/problem/solution/", form, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch solution")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched solution")
	return resp.Solution.Markdown, nil
}

// UpdateSolution publishes markdown as the problem's editorial for one
// locale. message becomes the revision log entry.
func (c *Client) UpdateSolution(
	ctx context.Context,
	alias, locale, markdown, message string,
) error {
	ctx, span := tracer.Start(ctx, "Client.UpdateSolution", trace.WithAttributes(
		attribute.String("problem", alias),
		attribute.String("locale", locale),
		attribute.Int("bytes", len(markdown)),
	))
	defer span.End()

	form := url.Values{}
	form.Set("problem_alias", alias)
	form.Set("solution", markdown)
	form.Set("message", message)
	form.Set("lang", locale)

	var resp struct {
		Status string `json:"status"`
	}
	if err := c.postForm(ctx, "/api/problem/updateSolution/", form, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish solution")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "published solution")
	return nil
}

// InvalidateCaches fires cache-busting reads against the public frontend
// so the next verification round sees fresh content. Best effort; a
// failed bust is logged and ignored because verification re-reads
// through the API anyway.
func (c *Client) InvalidateCaches(
	ctx context.Context,
	alias string,
	locales []string,
) {
	ctx, span := tracer.Start(ctx, "Client.InvalidateCaches", trace.WithAttributes(
		attribute.String("problem", alias),
		attribute.StringSlice("locales", locales),
	))
	defer span.End()

	now := strconv.FormatInt(c.clock().UnixMilli(), 10)
	for _, locale := range locales {
		target := c.public.JoinPath("arena", "problem", alias)
		q := target.Query()
		q.Set("lang", locale)
		q.Set("t", now)
		target.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, target.String(), nil,
		)
		if err != nil {
			logger.Logger.WarnContext(ctx, "failed to construct cache bust request",
				"error", err, "locale", locale)
			continue
		}
		resp, err := c.client.Do(req)
		if err != nil {
			logger.Logger.WarnContext(ctx, "cache bust request failed",
				"error", err, "locale", locale)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "busted caches")
}

// postForm sends one form-encoded API call and decodes the JSON
// response into out. Judge-side rejections come back as
// ValidationError with the offending parameter in Message when the
// judge named one.
func (c *Client) postForm(
	ctx context.Context,
	route string,
	form url.Values,
	out any,
) error {
	target := c.base.JoinPath(route).String()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		target,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return pipelineerrors.TransportError{Op: route, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return pipelineerrors.TransportError{Op: route, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pipelineerrors.TransportError{Op: route, Err: err}
	}

	var probe apiError
	if err := json.Unmarshal(body, &probe); err == nil && probe.Status == "error" {
		message := probe.Error
		if probe.Parameter != "" {
			message = probe.Parameter
		}
		return pipelineerrors.ValidationError{Op: route, Message: message}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pipelineerrors.TransportError{
			Op:  route,
			Err: fmt.Errorf("got invalid status code(%d)", resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return pipelineerrors.TransportError{
				Op:  route,
				Err: fmt.Errorf("failed to decode response: %w", err),
			}
		}
	}

	return nil
}
