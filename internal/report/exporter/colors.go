package exporter

// Mean tiers on the 1-5 scale. Each lower bound is inclusive.
const (
	meanTierTop  = 4.5
	meanTierGood = 3.5
	meanTierMid  = 2.5
)

// Mean color classes used in the generated documents
const (
	MeanClassTop  = "mean-top"
	MeanClassGood = "mean-good"
	MeanClassMid  = "mean-mid"
	MeanClassLow  = "mean-low"
)

// Mean colors; the same hex values back the CSS classes
const (
	MeanHexTop  = "#10b981"
	MeanHexGood = "#3b82f6"
	MeanHexMid  = "#eab308"
	MeanHexLow  = "#ef4444"
)

// distColors colors scale values 1..5, low to high
var distColors = [5]string{"#ef4444", "#f97316", "#eab308", "#84cc16", "#10b981"}

// Sentiment colors
const (
	colorPositive = "#10b981"
	colorNeutral  = "#94a3b8"
	colorNegative = "#ef4444"
	colorWords    = "#3b82f6"
)

func meanTier(mean float64) int {
	switch {
	case mean >= meanTierTop:
		return 0
	case mean >= meanTierGood:
		return 1
	case mean >= meanTierMid:
		return 2
	default:
		return 3
	}
}

// MeanColor returns the CSS class for a mean on the 1-5 scale
func MeanColor(mean float64) string {
	return [4]string{MeanClassTop, MeanClassGood, MeanClassMid, MeanClassLow}[meanTier(mean)]
}

// MeanColorHex returns the color for a mean on the 1-5 scale
func MeanColorHex(mean float64) string {
	return [4]string{MeanHexTop, MeanHexGood, MeanHexMid, MeanHexLow}[meanTier(mean)]
}

// distColor returns the color for the i-th scale value, clamping past the end
func distColor(i int) string {
	if i < 0 {
		i = 0
	}
	if i >= len(distColors) {
		i = len(distColors) - 1
	}
	return distColors[i]
}
