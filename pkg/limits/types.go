package limits

// Feature represents a metered action or resource a user can consume.
type Feature string

// Known features.
const (
	// FeatureProjects counts live projects. It is durable: window resets never touch it.
	FeatureProjects     Feature = "projects"
	FeaturePushAnalyses Feature = "push_analyses"
	FeatureFixPRs       Feature = "fix_prs"
)

// KnownFeatures lists every feature in a stable order.
var KnownFeatures = []Feature{FeatureProjects, FeaturePushAnalyses, FeatureFixPRs}

// Valid reports whether f is one of the known features.
func (f Feature) Valid() bool {
	switch f {
	case FeatureProjects, FeaturePushAnalyses, FeatureFixPRs:
		return true
	}
	return false
}

// Tier identifies a subscription tier.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// TierOf maps the boolean tier flag stored on usage records to a Tier.
func TierOf(isPro bool) Tier {
	if isPro {
		return TierPro
	}
	return TierFree
}

// Unlimited represents a feature with no ceiling (-1).
const Unlimited int64 = -1
