package service

import (
	"strings"
	"testing"

	"pcosguard-backend/models"
)

func TestLHFSHRatio(t *testing.T) {
	cases := []struct {
		fsh, lh float64
		want    string
	}{
		{4.8, 10.2, "2.13"},
		{5, 5, "1.00"},
		{0, 10.2, "N/A"},
		{-1, 10.2, "N/A"},
	}
	for _, tc := range cases {
		got := LHFSHRatio(models.AssessmentInputs{FSH: tc.fsh, LH: tc.lh})
		if got != tc.want {
			t.Fatalf("LHFSHRatio(fsh=%v, lh=%v): want=%q got=%q", tc.fsh, tc.lh, tc.want, got)
		}
	}
}

func TestBuildAssessmentPromptEmbedsInputs(t *testing.T) {
	in := DefaultAssessmentInputs()
	prompt := buildAssessmentPrompt("u_123", in)

	for _, want := range []string{
		"Patient ID: u_123",
		"- Age: 24",
		"- BMI: 23.88 (derived from 65kg, 165cm)",
		"(Ratio: 2.13)",
		"- AMH: 3.5 ng/mL",
		"- Cycle: Regular (Length: 30 days)",
		"- Acne: Yes",
		"- Hirsutism: No",
		"- Diet: Frequent Fast Food",
		"- Exercise: No",
		"- Blood Group: O+",
		"riskLevel (LOW, MODERATE, HIGH)",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestClassifierInstructionNamesHeuristics(t *testing.T) {
	for _, want := range []string{"Ratios > 2.0", "> 4.5 ng/mL", "Cycle Regularity"} {
		if !strings.Contains(classifierInstruction, want) {
			t.Fatalf("instruction missing %q", want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{65: "65", 0.8: "0.8", 23.88: "23.88", -3: "-3", 0: "0"}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Fatalf("formatNumber(%v): want=%q got=%q", in, want, got)
		}
	}
}

func TestLinks(t *testing.T) {
	want := `https://www.practo.com/search/doctors?q=%5B%7B%22word%22%3A%22PCOS%22%7D%5D`
	if got := DoctorSearchURL(""); got != want {
		t.Fatalf("DoctorSearchURL default: want=%q got=%q", want, got)
	}
	if got := DoctorSearchURL("PCOS"); got != want {
		t.Fatalf("DoctorSearchURL: want=%q got=%q", want, got)
	}
	if got := AwarenessURL(); got != "https://www.pcoschallenge.org" {
		t.Fatalf("AwarenessURL: got=%q", got)
	}
}
