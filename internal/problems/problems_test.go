package problems_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omegaup-tools/editorialgen/internal/problems"
)

func TestParse(t *testing.T) {
	t.Run("SkipsBlanksAndComments", func(t *testing.T) {
		input := strings.Join([]string{
			"# production batch 2026-08",
			"sumas",
			"",
			"   ",
			"# paused until statement fix",
			"aplusb",
			"  triangulos  ",
		}, "\n")

		aliases, err := problems.Parse(strings.NewReader(input))
		require.NoError(t, err, "failed to parse list")
		assert.Equal(t, []string{"sumas", "aplusb", "triangulos"}, aliases,
			"wrong aliases parsed")
	})

	t.Run("CollapsesDuplicates", func(t *testing.T) {
		aliases, err := problems.Parse(strings.NewReader("sumas\naplusb\nsumas\n"))
		require.NoError(t, err, "failed to parse list")
		assert.Equal(t, []string{"sumas", "aplusb"}, aliases, "duplicate not collapsed")
	})

	t.Run("EmptyInput", func(t *testing.T) {
		aliases, err := problems.Parse(strings.NewReader("\n# nothing here\n"))
		require.NoError(t, err, "failed to parse list")
		assert.Empty(t, aliases, "expected no aliases")
	})
}
