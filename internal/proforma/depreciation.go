package proforma

// ResidentialRecoveryYears is the straight-line recovery period for
// residential rental buildings.
const ResidentialRecoveryYears = 27.5

func newDepreciation(price, landPct float64) Depreciation {
	land := price * landPct
	basis := price - land
	return Depreciation{
		DepreciableBasis:   basis,
		LandValue:          land,
		RecoveryYears:      ResidentialRecoveryYears,
		AnnualDepreciation: basis / ResidentialRecoveryYears,
	}
}

// ForYear is the deduction taken in the given year. It stops once the basis
// is exhausted, so year 28 carries the half-year remainder.
func (d Depreciation) ForYear(year int) float64 {
	if year < 1 || d.AnnualDepreciation <= 0 {
		return 0
	}
	taken := d.AnnualDepreciation * float64(year-1)
	remaining := d.DepreciableBasis - taken
	if remaining <= 0 {
		return 0
	}
	if remaining < d.AnnualDepreciation {
		return remaining
	}
	return d.AnnualDepreciation
}

// Accumulated sums ForYear over years 1..years.
func (d Depreciation) Accumulated(years int) float64 {
	total := 0.0
	for y := 1; y <= years; y++ {
		total += d.ForYear(y)
	}
	return total
}
