package limits

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type planFile struct {
	Plans []Plan `yaml:"plans"`
}

// fileSource reads plans from a YAML document on every Load.
type fileSource struct {
	path string
}

// NewFileSource returns a Source that reads the plan table from a YAML file:
//
//	plans:
//	  - tier: free
//	    name: Free
//	    limits:
//	      projects: 1
//	      push_analyses: 2
//	      fix_prs: 2
//	  - tier: pro
//	    name: Pro
//	    limits:
//	      projects: -1
//	      push_analyses: -1
//	      fix_prs: -1
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) (map[Tier]Plan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return ParsePlans(data)
}

// ParsePlans decodes a YAML plan table. Duplicate tiers are rejected.
func ParsePlans(data []byte) (map[Tier]Plan, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidPlanConfiguration, err)
	}

	plans := make(map[Tier]Plan, len(f.Plans))
	for _, p := range f.Plans {
		if _, dup := plans[p.Tier]; dup {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("tier %q declared more than once", p.Tier))
		}
		plans[p.Tier] = p
	}
	return plans, nil
}
