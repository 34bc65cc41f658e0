package limits

import "maps"

// Plan describes the ceilings applied to one tier.
type Plan struct {
	Tier   Tier              `yaml:"tier"`
	Name   string            `yaml:"name"`
	Limits map[Feature]int64 `yaml:"limits"` // Unlimited (-1) disables the ceiling
}

func (p Plan) clone() Plan {
	return Plan{
		Tier:   p.Tier,
		Name:   p.Name,
		Limits: maps.Clone(p.Limits),
	}
}

// DefaultPlans returns the free and pro plans used when no plan file is configured.
func DefaultPlans() map[Tier]Plan {
	return map[Tier]Plan{
		TierFree: {
			Tier: TierFree,
			Name: "Free",
			Limits: map[Feature]int64{
				FeatureProjects:     1,
				FeaturePushAnalyses: 2,
				FeatureFixPRs:       2,
			},
		},
		TierPro: {
			Tier: TierPro,
			Name: "Pro",
			Limits: map[Feature]int64{
				FeatureProjects:     Unlimited,
				FeaturePushAnalyses: Unlimited,
				FeatureFixPRs:       Unlimited,
			},
		},
	}
}
