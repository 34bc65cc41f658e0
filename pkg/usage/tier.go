package usage

import "strings"

type tierKind uint8

const (
	tierAbsent tierKind = iota
	tierFlag
	tierLegacy
)

// storedTier is the tier as found in persisted data. Current records carry a
// boolean flag; records written by older clients carry a plan name instead.
// Adapters decode into storedTier and call normalize once, so nothing past the
// adapter boundary sees the legacy form.
type storedTier struct {
	kind   tierKind
	isPro  bool
	legacy string
}

func tierFromFlag(isPro bool) storedTier {
	return storedTier{kind: tierFlag, isPro: isPro}
}

func tierFromLegacy(name string) storedTier {
	return storedTier{kind: tierLegacy, legacy: name}
}

// decodeTier builds a storedTier from optional persisted fields. The flag wins when both are set.
func decodeTier(flag *bool, legacy *string) storedTier {
	switch {
	case flag != nil:
		return tierFromFlag(*flag)
	case legacy != nil && *legacy != "":
		return tierFromLegacy(*legacy)
	default:
		return storedTier{}
	}
}

func (t storedTier) normalize() bool {
	switch t.kind {
	case tierFlag:
		return t.isPro
	case tierLegacy:
		switch strings.ToLower(strings.TrimSpace(t.legacy)) {
		case "pro", "premium", "paid":
			return true
		}
	}
	return false
}
