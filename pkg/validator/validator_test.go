package validator_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohnish27-dev/protocol-zero/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("repository", "acme/api"),
			validator.MaxLenString("repository", "acme/api", 8),
			validator.MinNum("test_files", 0, 0),
			validator.FiniteFloat("health_score", 72.5),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("repository", "   "),
			validator.MaxLenString("language", "héllo", 4),
			validator.MinNum("contributors", -1, 0),
			validator.FiniteFloat("health_score", math.NaN()),
			validator.FiniteFloat("documentation_score", math.Inf(1)),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(fmt.Errorf("wrapped: %w", err))
		require.Len(t, ve, 5)
		assert.Equal(t, []string{"repository", "language", "contributors", "health_score", "documentation_score"}, ve.Fields())
		assert.True(t, ve.Has("contributors"))
		assert.False(t, ve.Has("stars"))
		assert.Contains(t, err.Error(), "contributors: must be at least 0")
	})

	t.Run("max length counts runes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.MaxLenString("language", "héllo", 5)))
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()
	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))
	assert.Equal(t, "validation failed", validator.ValidationErrors{}.Error())
}
