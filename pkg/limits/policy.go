package limits

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Policy maps a tier and feature to a ceiling.
// It is built once at startup and is safe for concurrent use: nothing mutates it after NewPolicy returns.
type Policy struct {
	plans   map[Tier]Plan
	durable []Feature
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithDurable overrides the set of durable features. Durable counters track
// standing resources and survive window resets.
func WithDurable(features ...Feature) PolicyOption {
	return func(p *Policy) {
		p.durable = slices.Clone(features)
	}
}

// NewPolicy loads plans from src and validates them.
func NewPolicy(ctx context.Context, src Source, opts ...PolicyOption) (*Policy, error) {
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	p := &Policy{
		plans:   make(map[Tier]Plan, len(plans)),
		durable: []Feature{FeatureProjects},
	}
	for tier, plan := range plans {
		p.plans[tier] = plan.clone()
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustNewPolicy is like NewPolicy but panics on error.
func MustNewPolicy(ctx context.Context, src Source, opts ...PolicyOption) *Policy {
	p, err := NewPolicy(ctx, src, opts...)
	if err != nil {
		panic(fmt.Sprintf("limits: %v", err))
	}
	return p
}

// Ceiling returns the ceiling for feature on tier, or Unlimited.
func (p *Policy) Ceiling(tier Tier, feature Feature) (int64, error) {
	if !feature.Valid() {
		return 0, ErrInvalidFeature
	}
	plan, ok := p.plans[tier]
	if !ok {
		return 0, ErrPlanNotFound
	}
	return plan.Limits[feature], nil
}

// Within reports whether a user at the given count may consume one more unit.
func (p *Policy) Within(tier Tier, feature Feature, current int64) (allowed bool, limit int64, err error) {
	limit, err = p.Ceiling(tier, feature)
	if err != nil {
		return false, 0, err
	}
	if limit == Unlimited {
		return true, Unlimited, nil
	}
	return current < limit, limit, nil
}

// Remaining returns max(0, limit-current), or Unlimited.
func (p *Policy) Remaining(tier Tier, feature Feature, current int64) (int64, error) {
	limit, err := p.Ceiling(tier, feature)
	if err != nil {
		return 0, err
	}
	if limit == Unlimited {
		return Unlimited, nil
	}
	return max(0, limit-current), nil
}

// IsDurable reports whether feature survives window resets.
func (p *Policy) IsDurable(feature Feature) bool {
	return slices.Contains(p.durable, feature)
}

// ResettableFeatures returns the known features that are zeroed on a window reset.
func (p *Policy) ResettableFeatures() []Feature {
	out := make([]Feature, 0, len(KnownFeatures))
	for _, f := range KnownFeatures {
		if !p.IsDurable(f) {
			out = append(out, f)
		}
	}
	return out
}

// Features returns the known features in a stable order.
func (p *Policy) Features() []Feature {
	return slices.Clone(KnownFeatures)
}

// Plan returns a copy of the plan for tier.
func (p *Policy) Plan(tier Tier) (Plan, error) {
	plan, ok := p.plans[tier]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan.clone(), nil
}

func (p *Policy) validate() error {
	for _, tier := range []Tier{TierFree, TierPro} {
		plan, ok := p.plans[tier]
		if !ok {
			return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("missing plan for tier %q", tier))
		}
		for _, f := range KnownFeatures {
			limit, ok := plan.Limits[f]
			if !ok {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %q has no limit for feature %q", tier, f))
			}
			if limit < Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %q has negative limit for feature %q: %d", tier, f, limit))
			}
		}
		for f := range plan.Limits {
			if !f.Valid() {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %q references unknown feature %q", tier, f))
			}
		}
	}
	for _, f := range p.durable {
		if !f.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("unknown durable feature %q", f))
		}
	}
	return nil
}
