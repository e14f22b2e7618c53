package adherence

// VitalLevel classifies a reading against the user's thresholds.
type VitalLevel int

const (
	VitalNormal VitalLevel = iota
	VitalHigh
	VitalLow
	// VitalHighLow means one component is above its bound while another is
	// below, e.g. systolic high with diastolic low. It is a deliberate,
	// separate alert class with its own wording, not an error state.
	VitalHighLow
)

func aboveInt(v int, max *int) bool {
	return max != nil && v > *max
}

func belowInt(v int, min *int) bool {
	return min != nil && v < *min
}

func aboveFloat(v float64, max *float64) bool {
	return max != nil && v > *max
}

func belowFloat(v float64, min *float64) bool {
	return min != nil && v < *min
}

// ClassifyBP classifies a blood pressure reading. Precedence: high-and-low,
// then high, then low, then normal. An absent bound never triggers.
func ClassifyBP(log BPLog, t Thresholds) VitalLevel {
	high := aboveInt(log.Systolic, t.BPSystolicMax) || aboveInt(log.Diastolic, t.BPDiastolicMax)
	low := belowInt(log.Systolic, t.BPSystolicMin) || belowInt(log.Diastolic, t.BPDiastolicMin)

	switch {
	case high && low:
		return VitalHighLow
	case high:
		return VitalHigh
	case low:
		return VitalLow
	default:
		return VitalNormal
	}
}

// ClassifySugar classifies a sugar reading against the threshold pair
// selected by the reading's declared type. A fasting reading is never
// compared against random bounds and vice versa.
func ClassifySugar(log SugarLog, t Thresholds) VitalLevel {
	var min, max *float64
	if log.Type == SugarFasting {
		min, max = t.SugarFastingMin, t.SugarFastingMax
	} else {
		min, max = t.SugarRandomMin, t.SugarRandomMax
	}

	high := aboveFloat(log.Value, max)
	low := belowFloat(log.Value, min)

	switch {
	case high && low:
		return VitalHighLow
	case high:
		return VitalHigh
	case low:
		return VitalLow
	default:
		return VitalNormal
	}
}
