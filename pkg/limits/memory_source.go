package limits

import "context"

// Source defines how plans are loaded into a Policy.
type Source interface {
	Load(ctx context.Context) (map[Tier]Plan, error)
}

// inMemSource implements Source over a fixed plan map.
type inMemSource struct {
	plans map[Tier]Plan
}

// NewInMemSource returns a Source holding a deep copy of the given plans.
func NewInMemSource(plans map[Tier]Plan) Source {
	plansCopy := make(map[Tier]Plan, len(plans))
	for tier, plan := range plans {
		plansCopy[tier] = plan.clone()
	}
	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of the plans; callers may mutate the result freely.
func (s *inMemSource) Load(context.Context) (map[Tier]Plan, error) {
	plansCopy := make(map[Tier]Plan, len(s.plans))
	for tier, plan := range s.plans {
		plansCopy[tier] = plan.clone()
	}
	return plansCopy, nil
}
