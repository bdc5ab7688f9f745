package eq

import (
	"github.com/presetlab/eqgen/pkg/models"
)

// GainLimit bounds the correction gain to the device-supported range in dB.
const GainLimit = 32.0

// Correct maps each measured row to a correction band. The gain is the
// boost or cut needed to move the measured curve onto the target curve,
// clamped to [-GainLimit, GainLimit]. Correct is total: it never fails
// and never mutates its input.
func Correct(rows []models.FrequencyRow) []models.EQPoint {
	points := make([]models.EQPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.EQPoint{
			Frequency: row.Frequency,
			Gain:      ClampGain(row.Target - row.Measured),
		})
	}
	return points
}

// ClampGain limits a gain value to [-GainLimit, GainLimit].
func ClampGain(gain float64) float64 {
	return max(-GainLimit, min(GainLimit, gain))
}
