package service

import (
	"errors"
	"math"
	"testing"
)

func TestComputeBMI(t *testing.T) {
	cases := []struct {
		weight, height, want float64
	}{
		{65, 165, 23.88},
		{70, 175, 22.86},
		{70, 0, 0},
		{70, -10, 0},
	}
	for _, tc := range cases {
		if got := ComputeBMI(tc.weight, tc.height); got != tc.want {
			t.Fatalf("ComputeBMI(%v, %v): want=%v got=%v", tc.weight, tc.height, tc.want, got)
		}
	}
}

func TestIntakeFormDefaults(t *testing.T) {
	f := NewIntakeForm()
	v := f.Values()
	if v.Age != 24 || v.Weight != 65 || v.Height != 165 || v.BMI != 23.88 {
		t.Fatalf("defaults: %+v", v)
	}
	if v.BloodGroup != "O+" || v.CycleStatus != "Regular" {
		t.Fatalf("default categories: %+v", v)
	}
	if !v.WeightGain || !v.Pimples || !v.FastFood || v.Exercise || v.Pregnant {
		t.Fatalf("default flags: %+v", v)
	}
	if v.FSH != 4.8 || v.LH != 10.2 || v.AMH != 3.5 || v.VitaminD3 != 20 {
		t.Fatalf("default hormones: %+v", v)
	}
}

func TestIntakeFormRecomputesBMI(t *testing.T) {
	f := NewIntakeForm()

	if err := f.Set("weight", "70"); err != nil {
		t.Fatalf("Set weight: %v", err)
	}
	// 70 / 1.65^2
	if got := f.Values().BMI; got != 25.71 {
		t.Fatalf("BMI after weight: want=%v got=%v", 25.71, got)
	}

	if err := f.Set("height", "175"); err != nil {
		t.Fatalf("Set height: %v", err)
	}
	if got := f.Values().BMI; got != 22.86 {
		t.Fatalf("BMI after height: want=%v got=%v", 22.86, got)
	}

	if err := f.Set("height", ""); err != nil {
		t.Fatalf("Set empty height: %v", err)
	}
	if got := f.Values().BMI; got != 0 {
		t.Fatalf("BMI with zero height: want=0 got=%v", got)
	}
}

func TestIntakeFormBMIIsNotEditable(t *testing.T) {
	f := NewIntakeForm()
	err := f.Set("bmi", "40")
	if !errors.Is(err, ErrDerivedField) {
		t.Fatalf("Set bmi: want=ErrDerivedField got=%v", err)
	}
	if got := f.Values().BMI; got != 23.88 {
		t.Fatalf("BMI changed: got=%v", got)
	}
}

func TestIntakeFormCoercion(t *testing.T) {
	f := NewIntakeForm()

	sets := map[string]string{
		"age":         "-3",
		"pulseRate":   "abc",
		"cycleStatus": "Irregular",
		"bloodGroup":  "AB-",
		"pregnant":    "on",
		"pimples":     "false",
		"exercise":    "true",
		"fsh":         "0",
	}
	for field, raw := range sets {
		if err := f.Set(field, raw); err != nil {
			t.Fatalf("Set %s: %v", field, err)
		}
	}

	v := f.Values()
	// No bounds checks: negative age passes through
	if v.Age != -3 {
		t.Fatalf("Age: want=-3 got=%v", v.Age)
	}
	if v.PulseRate != 0 {
		t.Fatalf("PulseRate: want=0 got=%v", v.PulseRate)
	}
	if v.CycleStatus != "Irregular" || v.BloodGroup != "AB-" {
		t.Fatalf("categories: %+v", v)
	}
	if !v.Pregnant || v.Pimples || !v.Exercise {
		t.Fatalf("flags: %+v", v)
	}
	if v.FSH != 0 {
		t.Fatalf("FSH: want=0 got=%v", v.FSH)
	}
}

func TestIntakeFormUnknownField(t *testing.T) {
	f := NewIntakeForm()
	if err := f.Set("shoeSize", "42"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("Set unknown: want=ErrUnknownField got=%v", err)
	}
}

func TestIntakeFormReset(t *testing.T) {
	f := NewIntakeForm()
	_ = f.Set("weight", "90")
	f.Reset()
	if f.Values() != DefaultAssessmentInputs() {
		t.Fatalf("Reset: got=%+v", f.Values())
	}
}

func TestIntakeFormNonFiniteNumbersBecomeZero(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "Infinity", "+infinity"} {
		f := NewIntakeForm()
		if err := f.Set("weight", raw); err != nil {
			t.Fatalf("Set weight %q: %v", raw, err)
		}
		v := f.Values()
		if v.Weight != 0 || v.BMI != 0 {
			t.Fatalf("Set weight %q: want weight=0 bmi=0, got weight=%v bmi=%v", raw, v.Weight, v.BMI)
		}
	}

	f := NewIntakeForm()
	_ = f.Set("height", "NaN")
	if v := f.Values(); v.Height != 0 || v.BMI != 0 {
		t.Fatalf("Set height NaN: %+v", v)
	}
}

func TestNormalizeInputs(t *testing.T) {
	in := DefaultAssessmentInputs()
	in.Weight = 1e308
	in.Height = 1
	in.BMI = 99
	in.AMH = math.Inf(1)
	in.FSH = math.NaN()

	out := NormalizeInputs(in)
	if out.BMI != 0 {
		t.Fatalf("BMI: want=0 got=%v", out.BMI)
	}
	if out.AMH != 0 || out.FSH != 0 {
		t.Fatalf("non-finite hormones: %+v", out)
	}
	if out.Weight != 1e308 || out.Age != in.Age {
		t.Fatalf("finite values changed: %+v", out)
	}

	if got := NormalizeInputs(DefaultAssessmentInputs()); got != DefaultAssessmentInputs() {
		t.Fatalf("defaults changed: %+v", got)
	}
}
