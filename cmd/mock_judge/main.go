package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/omegaup-tools/editorialgen/cmd/mock_judge/routes"
	"github.com/omegaup-tools/editorialgen/internal/validator"
)

func main() {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	e.Use(middleware.Logger())

	state := routes.NewState()
	state.Seed(&routes.Problem{
		Title:      "Sumas",
		Alias:      "sumas",
		Statements: map[string]string{"es": "# Sumas\n\nLee dos enteros e imprime su suma."},
		Languages:  []string{"py3", "cpp17-gcc"},
		Limits:     map[string]any{"TimeLimit": "1s", "MemoryLimit": 33554432},
		Verdict:    "AC",
		Score:      1,
		QueuePolls: 2,
	})
	state.Seed(&routes.Problem{
		Title:      "Fibonacci",
		Alias:      "fibonacci",
		Statements: map[string]string{"es": "# Fibonacci\n\nImprime el n-esimo numero de Fibonacci."},
		Languages:  []string{"py3"},
		Verdict:    "WA",
		Score:      0.4,
		QueuePolls: 3,
	})
	state.Seed(&routes.Problem{
		Title:      "Karel",
		Alias:      "karel-laberinto",
		Statements: map[string]string{"es": "# Karel\n\nResuelve el laberinto."},
		Languages:  []string{"kj", "kp"},
		Verdict:    "AC",
		Score:      1,
	})

	api := e.Group("/api")
	api.POST("/user/login/", state.Login)
	api.POST("/problem/details/", state.ProblemDetails)
	api.POST("/run/create/", state.RunCreate)
	api.POST("/run/status/", state.RunStatus)
	api.POST("/problem/solution/", state.Solution)
	api.POST("/problem/updateSolution/", state.UpdateSolution)

	e.GET("/arena/problem/:alias", state.Arena)

	e.Logger.Fatal(e.Start(":8890"))
}
