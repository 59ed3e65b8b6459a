package domain

// Tier is the three-level severity classification used wherever field risk
// is displayed.
type Tier string

const (
	TierNone     Tier = "none"
	TierModerate Tier = "moderate"
	TierSevere   Tier = "severe"
)

// Severity thresholds for the three-tier classification.
const (
	ModerateThreshold = 40
	SevereThreshold   = 75
)

// Color tokens shared by markers and badges. Concrete views map these to
// whatever their rendering surface supports.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Classify maps a risk descriptor to a severity tier. An absent descriptor
// or the normal sentinel is TierNone regardless of severity. Pure; applied
// identically for markers and field badges.
func Classify(risk *RiskDescriptor) Tier {
	if risk == nil || risk.RiskType == RiskNormal {
		return TierNone
	}
	switch {
	case risk.Severity >= SevereThreshold:
		return TierSevere
	case risk.Severity >= ModerateThreshold:
		return TierModerate
	default:
		return TierNone
	}
}

// Color returns the display color token for a tier.
func (t Tier) Color() string {
	switch t {
	case TierSevere:
		return ColorRed
	case TierModerate:
		return ColorYellow
	default:
		return ColorGreen
	}
}
