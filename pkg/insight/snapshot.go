package insight

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Mohnish27-dev/protocol-zero/pkg/validator"
)

// Snapshot is a flattened view of one analyzed repository at one point in time.
// Only the fields marked "keyed" feed DeriveKey.
type Snapshot struct {
	Repository         string  `json:"repository"`          // keyed, "owner/name"
	HealthScore        float64 `json:"health_score"`        // keyed
	RecentCommits      int     `json:"recent_commits"`      // keyed
	Contributors       int     `json:"contributors"`        // keyed
	DocumentationScore float64 `json:"documentation_score"` // keyed
	TestFiles          int     `json:"test_files"`          // keyed

	Stars      int       `json:"stars"`
	Forks      int       `json:"forks"`
	OpenIssues int       `json:"open_issues"`
	Language   string    `json:"language"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// maxRepositoryLen bounds "owner/name" identifiers.
const maxRepositoryLen = 512

// Validate reports ErrInvalidSnapshot, joined with the failed rules, for
// snapshots that cannot be keyed.
func (s Snapshot) Validate() error {
	err := validator.Apply(
		validator.RequiredString("repository", s.Repository),
		validator.MaxLenString("repository", s.Repository, maxRepositoryLen),
		validator.FiniteFloat("health_score", s.HealthScore),
		validator.FiniteFloat("documentation_score", s.DocumentationScore),
		validator.MinNum("recent_commits", s.RecentCommits, 0),
		validator.MinNum("contributors", s.Contributors, 0),
		validator.MinNum("test_files", s.TestFiles, 0),
	)
	if err != nil {
		return errors.Join(ErrInvalidSnapshot, err)
	}
	return nil
}

// fingerprint joins the keyed fields in a fixed order.
func (s Snapshot) fingerprint() string {
	return strings.Join([]string{
		s.Repository,
		formatScore(s.HealthScore),
		strconv.Itoa(s.RecentCommits),
		strconv.Itoa(s.Contributors),
		formatScore(s.DocumentationScore),
		strconv.Itoa(s.TestFiles),
	}, "|")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
