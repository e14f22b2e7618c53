package adherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestClassifyBP(t *testing.T) {
	thresholds := Thresholds{
		BPSystolicMin:  intPtr(90),
		BPSystolicMax:  intPtr(140),
		BPDiastolicMin: intPtr(60),
		BPDiastolicMax: intPtr(90),
	}

	tests := []struct {
		name      string
		systolic  int
		diastolic int
		want      VitalLevel
	}{
		{"normal", 120, 80, VitalNormal},
		{"high systolic", 150, 80, VitalHigh},
		{"high diastolic", 120, 95, VitalHigh},
		{"low systolic", 85, 80, VitalLow},
		{"low diastolic", 120, 55, VitalLow},
		{"systolic high diastolic low", 150, 55, VitalHighLow},
		{"systolic low diastolic high", 85, 95, VitalHighLow},
		{"boundary values are normal", 140, 60, VitalNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := BPLog{Systolic: tt.systolic, Diastolic: tt.diastolic}
			assert.Equal(t, tt.want, ClassifyBP(log, thresholds))
		})
	}
}

func TestClassifyBPAbsentBoundsNeverTrigger(t *testing.T) {
	log := BPLog{Systolic: 250, Diastolic: 20}
	assert.Equal(t, VitalNormal, ClassifyBP(log, Thresholds{}))

	onlyMax := Thresholds{BPSystolicMax: intPtr(140)}
	assert.Equal(t, VitalHigh, ClassifyBP(log, onlyMax))
}

// Exactly one classification holds for any reading, and high-and-low holds
// iff a high flag and a low flag are true simultaneously.
func TestClassifyBPExclusivity(t *testing.T) {
	thresholds := Thresholds{
		BPSystolicMin:  intPtr(90),
		BPSystolicMax:  intPtr(140),
		BPDiastolicMin: intPtr(60),
		BPDiastolicMax: intPtr(90),
	}

	for systolic := 80; systolic <= 160; systolic += 10 {
		for diastolic := 50; diastolic <= 100; diastolic += 10 {
			log := BPLog{Systolic: systolic, Diastolic: diastolic}
			level := ClassifyBP(log, thresholds)

			high := systolic > 140 || diastolic > 90
			low := systolic < 90 || diastolic < 60
			switch {
			case high && low:
				assert.Equal(t, VitalHighLow, level, "%d/%d", systolic, diastolic)
			case high:
				assert.Equal(t, VitalHigh, level, "%d/%d", systolic, diastolic)
			case low:
				assert.Equal(t, VitalLow, level, "%d/%d", systolic, diastolic)
			default:
				assert.Equal(t, VitalNormal, level, "%d/%d", systolic, diastolic)
			}
		}
	}
}

func TestClassifySugarUsesDeclaredTypeOnly(t *testing.T) {
	thresholds := Thresholds{
		SugarFastingMin: floatPtr(70),
		SugarFastingMax: floatPtr(100),
		SugarRandomMin:  floatPtr(70),
		SugarRandomMax:  floatPtr(140),
	}

	// 120 is high for fasting but normal for random.
	fasting := SugarLog{Value: 120, Type: SugarFasting}
	random := SugarLog{Value: 120, Type: SugarRandom}
	assert.Equal(t, VitalHigh, ClassifySugar(fasting, thresholds))
	assert.Equal(t, VitalNormal, ClassifySugar(random, thresholds))

	low := SugarLog{Value: 50, Type: SugarRandom}
	assert.Equal(t, VitalLow, ClassifySugar(low, thresholds))
}

func TestClassifySugarAbsentBoundsNeverTrigger(t *testing.T) {
	log := SugarLog{Value: 500, Type: SugarRandom}
	assert.Equal(t, VitalNormal, ClassifySugar(log, Thresholds{}))

	onlyFasting := Thresholds{SugarFastingMax: floatPtr(100)}
	assert.Equal(t, VitalNormal, ClassifySugar(log, onlyFasting))
}
