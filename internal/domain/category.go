package domain

// Category is the hazard classification derived from incident energy.
type Category string

const (
	CategoryMinimalRisk Category = "Minimal Risk"
	Category1Or2        Category = "Category 1/2"
	Category2           Category = "Category 2"
	Category3Or4        Category = "Category 3/4"
	CategoryDanger      Category = "DANGER"
)

// Category thresholds in cal/cm². Each is the exclusive upper bound of its band.
const (
	ThresholdMinimalRisk  = 1.2
	ThresholdCategory1Or2 = 4.0
	ThresholdCategory2    = 8.0
	ThresholdCategory3Or4 = 40.0
)

// ClassifyIncidentEnergy maps incident energy to a hazard category. The bands
// are evaluated in ascending order and the first match wins.
func ClassifyIncidentEnergy(energy float64) Category {
	switch {
	case energy < ThresholdMinimalRisk:
		return CategoryMinimalRisk
	case energy < ThresholdCategory1Or2:
		return Category1Or2
	case energy < ThresholdCategory2:
		return Category2
	case energy < ThresholdCategory3Or4:
		return Category3Or4
	default:
		return CategoryDanger
	}
}

// Severity ranks the category from 0 (Minimal Risk) to 4 (DANGER).
// Unknown categories rank -1.
func (c Category) Severity() int {
	switch c {
	case CategoryMinimalRisk:
		return 0
	case Category1Or2:
		return 1
	case Category2:
		return 2
	case Category3Or4:
		return 3
	case CategoryDanger:
		return 4
	default:
		return -1
	}
}

// Color is the display colour used when presenting the category.
func (c Category) Color() string {
	switch c {
	case CategoryMinimalRisk:
		return "green"
	case Category1Or2:
		return "orange"
	case Category2:
		return "darkorange"
	case Category3Or4:
		return "red"
	case CategoryDanger:
		return "black"
	default:
		return ""
	}
}
