package judge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omegaup-tools/editorialgen/internal/judge"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/types"
)

func newClient(t *testing.T, serverURL string) *judge.Client {
	t.Helper()

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.Logger = nil

	client, err := judge.NewClient(serverURL, "", httpClient.StandardClient())
	require.NoError(t, err, "failed to construct client")
	return client
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	e := echo.New()
	e.POST("/api/user/login/", func(c echo.Context) error {
		if c.FormValue("password") != "secret" {
			return c.JSON(http.StatusOK, map[string]string{
				"status": "error",
				"error":  "Username or password is wrong",
			})
		}
		c.SetCookie(&http.Cookie{Name: "ouat", Value: "token"})
		return c.JSON(http.StatusOK, map[string]string{"auth_token": "token"})
	})
	server := httptest.NewServer(e)
	defer server.Close()

	t.Run("ValidCredentials", func(t *testing.T) {
		client := newClient(t, server.URL)
		err := client.Login(ctx, "editorialbot", "secret")
		require.NoError(t, err, "expected login to succeed")
	})

	t.Run("BadCredentials", func(t *testing.T) {
		client := newClient(t, server.URL)
		err := client.Login(ctx, "editorialbot", "wrong")
		require.Error(t, err, "expected login to fail")

		var authErr pipelineerrors.AuthenticationError
		require.ErrorAs(t, err, &authErr, "expected an authentication error")
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	e := echo.New()
	e.POST("/api/run/create/", func(c echo.Context) error {
		switch c.FormValue("language") {
		case "py3":
			return c.JSON(http.StatusOK, map[string]string{
				"guid": "00000000-aaaa-bbbb-cccc-000000000001",
			})
		case "kp", "kj":
			return c.JSON(http.StatusOK, map[string]string{
				"status":    "error",
				"error":     "Invalid parameter",
				"parameter": "language",
			})
		default:
			return c.JSON(http.StatusOK, map[string]string{
				"status": "error",
				"error":  "Not allowed to submit",
			})
		}
	})
	server := httptest.NewServer(e)
	defer server.Close()

	client := newClient(t, server.URL)

	t.Run("Accepted", func(t *testing.T) {
		handle, err := client.Submit(ctx, types.Submission{
			ProblemAlias: "sumas",
			Language:     "py3",
			Source:       "print(sum(map(int, input().split())))",
		})
		require.NoError(t, err, "expected submission to succeed")
		assert.Equal(t, types.JobHandle("00000000-aaaa-bbbb-cccc-000000000001"), handle,
			"wrong run handle")
	})

	t.Run("LanguageRejected", func(t *testing.T) {
		_, err := client.Submit(ctx, types.Submission{
			ProblemAlias: "karel-maze",
			Language:     "kp",
			Source:       "iterate { move(); }",
		})
		require.Error(t, err, "expected submission to fail")
		assert.True(t, pipelineerrors.IsSkip(err),
			"language rejection must classify as a skip")
	})

	t.Run("OtherRejection", func(t *testing.T) {
		_, err := client.Submit(ctx, types.Submission{
			ProblemAlias: "sumas",
			Language:     "rs",
			Source:       "fn main() {}",
		})
		require.Error(t, err, "expected submission to fail")
		assert.False(t, pipelineerrors.IsSkip(err),
			"a non-language rejection must not classify as a skip")
	})
}

func TestSolutionRoundTrip(t *testing.T) {
	ctx := context.Background()

	published := map[string]string{}

	e := echo.New()
	e.POST("/api/problem/updateSolution/", func(c echo.Context) error {
		published[c.FormValue("lang")] = c.FormValue("solution")
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/api/problem/solution/", func(c echo.Context) error {
		if c.FormValue("t") == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"status": "error",
				"error":  "missing cache buster",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"solution": map[string]string{
				"markdown": published[c.FormValue("lang")],
			},
		})
	})
	server := httptest.NewServer(e)
	defer server.Close()

	client := newClient(t, server.URL)

	content := "# Editorial\n\nUse a prefix sum."
	err := client.UpdateSolution(ctx, "sumas", "es", content, "editorial via grader verification: AC")
	require.NoError(t, err, "failed to publish")

	got, err := client.Solution(ctx, "sumas", "es")
	require.NoError(t, err, "failed to read solution back")
	assert.Equal(t, content, got, "read back different content than published")
}

func TestWaitForResult(t *testing.T) {
	ctx := context.Background()

	t.Run("FinishesAfterQueueing", func(t *testing.T) {
		var polls atomic.Int64

		e := echo.New()
		e.POST("/api/run/status/", func(c echo.Context) error {
			if polls.Add(1) < 3 {
				return c.JSON(http.StatusOK, map[string]any{
					"guid":   c.FormValue("run_alias"),
					"status": "running",
				})
			}
			return c.JSON(http.StatusOK, map[string]any{
				"guid":    c.FormValue("run_alias"),
				"status":  "ready",
				"verdict": "AC",
				"score":   1.0,
				"runtime": 120,
				"memory":  4096,
			})
		})
		server := httptest.NewServer(e)
		defer server.Close()

		client := newClient(t, server.URL)
		monitor := judge.NewMonitor(client, time.Millisecond*10, time.Second*5)

		result, err := monitor.WaitForResult(ctx, "guid-1")
		require.NoError(t, err, "expected polling to finish")
		assert.Equal(t, types.TerminalDone, result.Status, "wrong terminal status")
		assert.Equal(t, types.VerdictAccepted, result.Verdict, "wrong verdict")
		assert.InDelta(t, 1.0, result.Score, 1e-9, "wrong score")
		assert.GreaterOrEqual(t, polls.Load(), int64(3), "finished with too few polls")
	})

	t.Run("CompileError", func(t *testing.T) {
		e := echo.New()
		e.POST("/api/run/status/", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]any{
				"guid":          c.FormValue("run_alias"),
				"status":        "compile_error",
				"compile_error": "syntax error at line 3",
			})
		})
		server := httptest.NewServer(e)
		defer server.Close()

		client := newClient(t, server.URL)
		monitor := judge.NewMonitor(client, time.Millisecond*10, time.Second*5)

		result, err := monitor.WaitForResult(ctx, "guid-2")
		require.NoError(t, err, "terminal errors are results, not errors")
		assert.Equal(t, types.TerminalError, result.Status, "wrong terminal status")
		assert.Equal(t, types.VerdictCompileError, result.Verdict, "wrong verdict")
		assert.Contains(t, result.Output, "syntax error", "compiler output not surfaced")
	})

	t.Run("BudgetExhausted", func(t *testing.T) {
		e := echo.New()
		e.POST("/api/run/status/", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]any{
				"guid":   c.FormValue("run_alias"),
				"status": "waiting",
			})
		})
		server := httptest.NewServer(e)
		defer server.Close()

		client := newClient(t, server.URL)
		monitor := judge.NewMonitor(client, time.Millisecond*10, time.Millisecond*100)

		result, err := monitor.WaitForResult(ctx, "guid-3")
		require.NoError(t, err, "timeout is a normal outcome")
		assert.Equal(t, types.TerminalTimeout, result.Status, "wrong terminal status")
		assert.Equal(t, types.VerdictUnknown, result.Verdict,
			"a timed out run must not carry a verdict")
		assert.Zero(t, result.Score, "a timed out run must not carry a score")
	})

	t.Run("JudgeRejectionIsNotATimeout", func(t *testing.T) {
		e := echo.New()
		e.POST("/api/run/status/", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{
				"status": "error",
				"error":  "runNotFound",
			})
		})
		server := httptest.NewServer(e)
		defer server.Close()

		client := newClient(t, server.URL)
		monitor := judge.NewMonitor(client, time.Millisecond*10, time.Second*10)

		start := time.Now()
		result, err := monitor.WaitForResult(ctx, "guid-5")
		require.Error(t, err, "a judge rejection must surface as an error")
		assert.Nil(t, result, "a judge rejection must not produce a result")

		var rejection pipelineerrors.ValidationError
		require.ErrorAs(t, err, &rejection, "expected the judge's rejection")
		assert.Less(t, time.Since(start), time.Second,
			"a rejection must not wait out the poll window")
	})

	t.Run("AbsorbsTransportBlips", func(t *testing.T) {
		var polls atomic.Int64

		e := echo.New()
		e.POST("/api/run/status/", func(c echo.Context) error {
			if polls.Add(1) == 1 {
				return c.NoContent(http.StatusBadGateway)
			}
			return c.JSON(http.StatusOK, map[string]any{
				"guid":    c.FormValue("run_alias"),
				"status":  "ready",
				"verdict": "WA",
				"score":   0.0,
			})
		})
		server := httptest.NewServer(e)
		defer server.Close()

		client := newClient(t, server.URL)
		monitor := judge.NewMonitor(client, time.Millisecond*10, time.Second*5)

		result, err := monitor.WaitForResult(ctx, "guid-4")
		require.NoError(t, err, "a single failed poll must not abort the wait")
		assert.Equal(t, types.TerminalDone, result.Status, "wrong terminal status")
		assert.Equal(t, types.VerdictWrongAnswer, result.Verdict, "wrong verdict")
	})
}
