package limits

import "errors"

var (
	ErrPlanNotFound             = errors.New("limits.errors.plan_not_found")
	ErrInvalidPlanConfiguration = errors.New("limits.errors.invalid_plan_configuration")
	ErrFailedToLoadPlans        = errors.New("limits.errors.failed_to_load_plans")

	// ErrInvalidFeature is a caller contract violation: the feature is outside the known set.
	ErrInvalidFeature = errors.New("limits.errors.invalid_feature")
)
