package models

// RiskLevel represents the risk classification returned by the oracle
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// RiskLevels lists every classification in schema order
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh}

// Valid reports whether r is one of the known classifications
func (r RiskLevel) Valid() bool {
	for _, level := range RiskLevels {
		if r == level {
			return true
		}
	}
	return false
}

// Cycle status values
const (
	CycleRegular   = "Regular"
	CycleIrregular = "Irregular"
)

// AssessmentInputs is the clinical questionnaire snapshot for one test.
// JSON names match the persisted record layout.
type AssessmentInputs struct {
	Age           float64 `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	BMI           float64 `json:"bmi"`
	BloodGroup    string  `json:"bloodGroup"`
	PulseRate     float64 `json:"pulseRate"`
	CycleLength   float64 `json:"cycleLength"`
	CycleStatus   string  `json:"cycleStatus"`
	Pregnant      bool    `json:"pregnant"`
	WeightGain    bool    `json:"weightGain"`
	HairGrowth    bool    `json:"hairGrowth"` // hirsutism
	SkinDarkening bool    `json:"skinDarkening"`
	HairLoss      bool    `json:"hairLoss"`
	Pimples       bool    `json:"pimples"` // acne
	FastFood      bool    `json:"fastFood"`
	Exercise      bool    `json:"exercise"`
	WaistHipRatio float64 `json:"waistHipRatio"`

	// Hormone & clinical inputs
	FSH       float64 `json:"fsh"`
	LH        float64 `json:"lh"`
	TSH       float64 `json:"tsh"`
	AMH       float64 `json:"amh"`
	Prolactin float64 `json:"prolactin"`
	VitaminD3 float64 `json:"vitaminD3"`
}

// AssessmentResult is the stored outcome of one submitted test
type AssessmentResult struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Timestamp       int64            `json:"timestamp"` // unix milliseconds
	Inputs          AssessmentInputs `json:"inputs"`
	RiskLevel       RiskLevel        `json:"riskLevel"`
	Confidence      float64          `json:"confidence"`
	Summary         string           `json:"summary"`
	Recommendations []string         `json:"recommendations"`
}
