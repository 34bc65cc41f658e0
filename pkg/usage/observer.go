package usage

import "github.com/Mohnish27-dev/protocol-zero/pkg/limits"

// Observer receives ledger events, typically to export metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	CheckObserved(feature limits.Feature, tier limits.Tier, allowed bool)
	IncrementObserved(feature limits.Feature, success bool)
	ResetObserved()
	StoreFailed(op string)
}

type noopObserver struct{}

func (noopObserver) CheckObserved(limits.Feature, limits.Tier, bool) {}
func (noopObserver) IncrementObserved(limits.Feature, bool)          {}
func (noopObserver) ResetObserved()                                  {}
func (noopObserver) StoreFailed(string)                              {}
