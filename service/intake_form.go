package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pcosguard-backend/models"
)

// Form field options
var (
	BloodGroups   = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}
	CycleStatuses = []string{models.CycleRegular, models.CycleIrregular}
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrDerivedField = errors.New("field is derived and cannot be edited")
)

// DefaultAssessmentInputs returns the values the intake form starts with
func DefaultAssessmentInputs() models.AssessmentInputs {
	return models.AssessmentInputs{
		Age:           24,
		Weight:        65,
		Height:        165,
		BMI:           23.88,
		BloodGroup:    "O+",
		PulseRate:     72,
		CycleLength:   30,
		CycleStatus:   models.CycleRegular,
		Pregnant:      false,
		WeightGain:    true,
		HairGrowth:    false,
		SkinDarkening: false,
		HairLoss:      false,
		Pimples:       true,
		FastFood:      true,
		Exercise:      false,
		WaistHipRatio: 0.8,
		FSH:           4.8,
		LH:            10.2,
		TSH:           2.1,
		AMH:           3.5,
		Prolactin:     15.0,
		VitaminD3:     20.0,
	}
}

// ComputeBMI returns weight (kg) / height (m)^2 rounded to two decimals, or 0 for a non-positive height
func ComputeBMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100
	if h <= 0 || !isFinite(weightKg) || !isFinite(h) {
		return 0
	}
	bmi := round2(weightKg / (h * h))
	if !isFinite(bmi) {
		return 0
	}
	return bmi
}

// NormalizeInputs zeroes non-finite numbers and recomputes BMI
func NormalizeInputs(in models.AssessmentInputs) models.AssessmentInputs {
	for _, f := range []*float64{
		&in.Age, &in.Weight, &in.Height, &in.PulseRate, &in.CycleLength, &in.WaistHipRatio,
		&in.FSH, &in.LH, &in.TSH, &in.AMH, &in.Prolactin, &in.VitaminD3,
	} {
		if !isFinite(*f) {
			*f = 0
		}
	}
	in.BMI = ComputeBMI(in.Weight, in.Height)
	return in
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IntakeForm collects one questionnaire. It only coerces types; values are never range-checked.
// Not safe for concurrent use.
type IntakeForm struct {
	values models.AssessmentInputs
}

// NewIntakeForm returns a form holding the default values
func NewIntakeForm() *IntakeForm {
	return &IntakeForm{values: DefaultAssessmentInputs()}
}

// Values returns a copy of the current inputs
func (f *IntakeForm) Values() models.AssessmentInputs {
	return f.values
}

// Reset restores the default values
func (f *IntakeForm) Reset() {
	f.values = DefaultAssessmentInputs()
}

// Set assigns the raw form value of one field. Editing weight or height recomputes BMI.
func (f *IntakeForm) Set(field, raw string) error {
	v := &f.values
	switch field {
	case "age":
		v.Age = parseNumber(raw)
	case "weight":
		v.Weight = parseNumber(raw)
		v.BMI = ComputeBMI(v.Weight, v.Height)
	case "height":
		v.Height = parseNumber(raw)
		v.BMI = ComputeBMI(v.Weight, v.Height)
	case "bmi":
		return fmt.Errorf("%w: %s", ErrDerivedField, field)
	case "bloodGroup":
		v.BloodGroup = raw
	case "pulseRate":
		v.PulseRate = parseNumber(raw)
	case "cycleLength":
		v.CycleLength = parseNumber(raw)
	case "cycleStatus":
		v.CycleStatus = raw
	case "pregnant":
		v.Pregnant = parseCheckbox(raw)
	case "weightGain":
		v.WeightGain = parseCheckbox(raw)
	case "hairGrowth":
		v.HairGrowth = parseCheckbox(raw)
	case "skinDarkening":
		v.SkinDarkening = parseCheckbox(raw)
	case "hairLoss":
		v.HairLoss = parseCheckbox(raw)
	case "pimples":
		v.Pimples = parseCheckbox(raw)
	case "fastFood":
		v.FastFood = parseCheckbox(raw)
	case "exercise":
		v.Exercise = parseCheckbox(raw)
	case "waistHipRatio":
		v.WaistHipRatio = parseNumber(raw)
	case "fsh":
		v.FSH = parseNumber(raw)
	case "lh":
		v.LH = parseNumber(raw)
	case "tsh":
		v.TSH = parseNumber(raw)
	case "amh":
		v.AMH = parseNumber(raw)
	case "prolactin":
		v.Prolactin = parseNumber(raw)
	case "vitaminD3":
		v.VitaminD3 = parseNumber(raw)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// parseNumber coerces a number input; empty, unparseable or non-finite text becomes 0
func parseNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !isFinite(n) {
		return 0
	}
	return n
}

// parseCheckbox coerces a checkbox value
func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes", "checked":
		return true
	default:
		return false
	}
}
