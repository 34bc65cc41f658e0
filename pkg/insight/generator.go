package insight

import (
	"context"
	"fmt"
	"time"
)

// Insight is the generated, cacheable analysis for a snapshot.
type Insight struct {
	Summary         string    `json:"summary"`
	Health          string    `json:"health"`
	Recommendations []string  `json:"recommendations"`
	Generator       string    `json:"generator"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Generator produces an insight for a snapshot, usually by calling a model.
type Generator interface {
	Generate(ctx context.Context, s Snapshot) (Insight, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, s Snapshot) (Insight, error)

func (f GeneratorFunc) Generate(ctx context.Context, s Snapshot) (Insight, error) {
	return f(ctx, s)
}

// RuleGenerator derives insights from fixed thresholds. It needs no network
// and is used when no model is configured.
type RuleGenerator struct {
	Now func() time.Time
}

const (
	healthyScore      = 75
	attentionScore    = 50
	lowDocsScore      = 40
	lowActivity       = 5
	soloContributors  = 1
	thinTestsPerActor = 2
)

func (g RuleGenerator) Generate(ctx context.Context, s Snapshot) (Insight, error) {
	if err := ctx.Err(); err != nil {
		return Insight{}, err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	health := "critical"
	switch {
	case s.HealthScore >= healthyScore:
		health = "healthy"
	case s.HealthScore >= attentionScore:
		health = "needs_attention"
	}

	var recs []string
	if s.TestFiles == 0 {
		recs = append(recs, "Add an automated test suite; no test files were found.")
	} else if s.TestFiles < thinTestsPerActor*max(s.Contributors, 1) {
		recs = append(recs, "Expand test coverage; the test suite is thin for the size of the team.")
	}
	if s.DocumentationScore < lowDocsScore {
		recs = append(recs, "Improve documentation: add a README with setup and usage sections.")
	}
	if s.RecentCommits < lowActivity {
		recs = append(recs, "Activity is low; triage open issues and cut a maintenance release.")
	}
	if s.Contributors <= soloContributors {
		recs = append(recs, "Reduce bus factor by documenting ownership and inviting reviewers.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep the current cadence; no structural gaps were detected.")
	}

	return Insight{
		Summary: fmt.Sprintf("%s scores %s/100 with %d recent commits from %d contributors.",
			s.Repository, formatScore(s.HealthScore), s.RecentCommits, s.Contributors),
		Health:          health,
		Recommendations: recs,
		Generator:       "rules",
		GeneratedAt:     now().UTC(),
	}, nil
}
