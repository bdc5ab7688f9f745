package models

// FrequencyRow is a single (frequency, target, measured) triple pulled
// from a report's data table. Values are decibels except Frequency (Hz).
type FrequencyRow struct {
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
	Target    float64 `json:"target" doc:"Target curve level in dB"`
	Measured  float64 `json:"measured" doc:"Measured response level in dB"`
}

// EQPoint is one correction band of the generated preset.
type EQPoint struct {
	Frequency float64 `json:"frequency" doc:"Band frequency in Hz"`
	Gain      float64 `json:"gain" doc:"Correction gain in dB, within [-32, 32]"`
}
