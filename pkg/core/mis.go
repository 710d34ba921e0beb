package core

// PowerHeuristic computes the MIS weight for a sampling strategy using the
// power heuristic with exponent 2. nf/ng are the number of samples taken
// with each strategy, fPdf/gPdf the respective densities.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	denom := f*f + g*g
	if denom == 0 {
		return 0
	}
	return (f * f) / denom
}

// BalanceHeuristic computes the MIS weight using the balance heuristic
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	denom := f + g
	if denom == 0 {
		return 0
	}
	return f / denom
}
