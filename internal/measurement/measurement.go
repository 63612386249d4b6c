// Package measurement tracks body measurements: weight and height logged per
// day, with BMI derived on read.
package measurement

import (
	"math"
	"time"
)

// Measurement is one day's body measurement for a user.
type Measurement struct {
	ID         int
	UserID     int
	MeasuredOn time.Time
	WeightKg   float64
	HeightCm   float64
}

// BMI derives the body mass index from the measurement. It is never stored
// so the value can never drift from its inputs.
func (m Measurement) BMI() float64 {
	if m.HeightCm <= 0 {
		return 0
	}
	heightM := m.HeightCm / 100
	bmi := m.WeightKg / (heightM * heightM)
	return math.Round(bmi*10) / 10
}
