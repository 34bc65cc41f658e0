package insight_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mohnish27-dev/protocol-zero/pkg/insight"
	"github.com/Mohnish27-dev/protocol-zero/pkg/validator"
)

func sampleSnapshot() insight.Snapshot {
	return insight.Snapshot{
		Repository:         "octo/repo",
		HealthScore:        82.5,
		RecentCommits:      14,
		Contributors:       3,
		DocumentationScore: 70,
		TestFiles:          12,
		Stars:              120,
		Forks:              9,
		OpenIssues:         4,
		Language:           "Go",
		AnalyzedAt:         time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestDeriveKey_KnownValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "7787bf13", insight.DeriveKey(sampleSnapshot()))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	t.Parallel()
	s := sampleSnapshot()
	assert.Equal(t, insight.DeriveKey(s), insight.DeriveKey(s))
	assert.Len(t, insight.DeriveKey(s), 8)
}

func TestDeriveKey_IgnoresUnkeyedFields(t *testing.T) {
	t.Parallel()

	base := insight.DeriveKey(sampleSnapshot())
	mutations := map[string]func(*insight.Snapshot){
		"stars":       func(s *insight.Snapshot) { s.Stars = 5000 },
		"forks":       func(s *insight.Snapshot) { s.Forks = 0 },
		"open issues": func(s *insight.Snapshot) { s.OpenIssues = 77 },
		"language":    func(s *insight.Snapshot) { s.Language = "Rust" },
		"analyzed at": func(s *insight.Snapshot) { s.AnalyzedAt = s.AnalyzedAt.AddDate(1, 0, 0) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := sampleSnapshot()
			mutate(&s)
			assert.Equal(t, base, insight.DeriveKey(s))
		})
	}
}

func TestDeriveKey_ChangesWithKeyedFields(t *testing.T) {
	t.Parallel()

	base := insight.DeriveKey(sampleSnapshot())
	mutations := map[string]func(*insight.Snapshot){
		"repository":     func(s *insight.Snapshot) { s.Repository = "octo/other" },
		"health score":   func(s *insight.Snapshot) { s.HealthScore = 82.6 },
		"recent commits": func(s *insight.Snapshot) { s.RecentCommits = 15 },
		"contributors":   func(s *insight.Snapshot) { s.Contributors = 4 },
		"docs score":     func(s *insight.Snapshot) { s.DocumentationScore = 71 },
		"test files":     func(s *insight.Snapshot) { s.TestFiles = 13 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := sampleSnapshot()
			mutate(&s)
			assert.NotEqual(t, base, insight.DeriveKey(s))
		})
	}
}

func TestDeriveKey_NonASCIIRepository(t *testing.T) {
	t.Parallel()

	a := sampleSnapshot()
	a.Repository = "café/😀"
	b := a
	b.Repository = "cafe/😀"

	assert.Len(t, insight.DeriveKey(a), 8)
	assert.NotEqual(t, insight.DeriveKey(a), insight.DeriveKey(b))
}

func TestSnapshot_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sampleSnapshot().Validate())

	s := sampleSnapshot()
	s.Repository = "  "
	assert.ErrorIs(t, s.Validate(), insight.ErrInvalidSnapshot)

	s = sampleSnapshot()
	s.TestFiles = -1
	s.HealthScore = math.Inf(-1)
	err := s.Validate()
	assert.ErrorIs(t, err, insight.ErrInvalidSnapshot)
	assert.Equal(t, []string{"health_score", "test_files"}, validator.ExtractValidationErrors(err).Fields())
}
