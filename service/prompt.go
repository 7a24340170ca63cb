package service

import (
	"fmt"
	"math"
	"strings"

	"pcosguard-backend/models"
)

// RatioNotApplicable marks an LH/FSH ratio that cannot be computed
const RatioNotApplicable = "N/A"

// LHFSHRatio formats LH/FSH to two decimals, or RatioNotApplicable when FSH is not positive
func LHFSHRatio(inputs models.AssessmentInputs) string {
	if inputs.FSH > 0 {
		return fmt.Sprintf("%.2f", round2(inputs.LH/inputs.FSH))
	}
	return RatioNotApplicable
}

// classifierInstruction asks the oracle to answer as the trained classifier would
const classifierInstruction = `
You are a specialized Medical AI Surrogate for a Random Forest Classifier trained on PCOS datasets.
Your task is to analyze patient features and provide a risk assessment as if you were the model
(n_estimators=300, max_depth=6, calibrated with isotonic regression).

Key indicators the model prioritizes:
1. LH/FSH Ratio: Ratios > 2.0 are high-risk indicators.
2. AMH: Levels > 4.5 ng/mL are significant for polycystic morphology.
3. BMI & Weight Gain: Metabolic markers.
4. Cycle Regularity: Clinical foundation for diagnosis.
5. Skin & Hair: Androgen excess markers (Hirsutism, Acne).
`

// round2 rounds half away from zero to two decimals (2.125 -> 2.13)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// formatNumber prints a float the way a form would show it (65, not 65.000000)
func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// buildAssessmentPrompt embeds every input and the derived ratio
func buildAssessmentPrompt(userID string, in models.AssessmentInputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perform a diagnostic prediction for Patient ID: %s.\n\n", userID)
	b.WriteString("Input Vector:\n")
	fmt.Fprintf(&b, "- Age: %s\n", formatNumber(in.Age))
	fmt.Fprintf(&b, "- BMI: %s (derived from %skg, %scm)\n", formatNumber(in.BMI), formatNumber(in.Weight), formatNumber(in.Height))
	fmt.Fprintf(&b, "- Blood Group: %s\n", in.BloodGroup)
	fmt.Fprintf(&b, "- Pulse Rate: %s bpm\n", formatNumber(in.PulseRate))
	fmt.Fprintf(&b, "- Waist-Hip Ratio: %s\n", formatNumber(in.WaistHipRatio))
	fmt.Fprintf(&b, "- FSH: %s mIU/mL, LH: %s mIU/mL (Ratio: %s)\n", formatNumber(in.FSH), formatNumber(in.LH), LHFSHRatio(in))
	fmt.Fprintf(&b, "- AMH: %s ng/mL\n", formatNumber(in.AMH))
	fmt.Fprintf(&b, "- TSH: %s mIU/L\n", formatNumber(in.TSH))
	fmt.Fprintf(&b, "- Prolactin: %s ng/mL\n", formatNumber(in.Prolactin))
	fmt.Fprintf(&b, "- Vitamin D3: %s ng/mL\n", formatNumber(in.VitaminD3))
	fmt.Fprintf(&b, "- Cycle: %s (Length: %s days)\n", in.CycleStatus, formatNumber(in.CycleLength))
	fmt.Fprintf(&b, "- Pregnant: %s\n", yesNo(in.Pregnant, "Yes", "No"))
	fmt.Fprintf(&b, "- Weight Gain: %s\n", yesNo(in.WeightGain, "Yes", "No"))
	fmt.Fprintf(&b, "- Hirsutism: %s\n", yesNo(in.HairGrowth, "Yes", "No"))
	fmt.Fprintf(&b, "- Hair Loss: %s\n", yesNo(in.HairLoss, "Yes", "No"))
	fmt.Fprintf(&b, "- Acne: %s\n", yesNo(in.Pimples, "Yes", "No"))
	fmt.Fprintf(&b, "- Darkening: %s\n", yesNo(in.SkinDarkening, "Yes", "No"))
	fmt.Fprintf(&b, "- Diet: %s\n", yesNo(in.FastFood, "Frequent Fast Food", "Healthy"))
	fmt.Fprintf(&b, "- Exercise: %s\n", yesNo(in.Exercise, "Regular", "No"))
	b.WriteString("\nReturn the result in JSON format with riskLevel (LOW, MODERATE, HIGH), confidence (0-1),\n")
	b.WriteString("a summary of findings, and a list of 4-5 actionable medical or lifestyle recommendations.\n")
	return b.String()
}
