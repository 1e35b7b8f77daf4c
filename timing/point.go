package timing

// Point is one (frequency, power) sample of a periodogram.
type Point struct {
	Frequency float64
	Power     float64
}

// Period returns 1/Frequency.
func (p Point) Period() float64 { return 1 / p.Frequency }
