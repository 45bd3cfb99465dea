package inference

// ProfiledFunction is a negative log-likelihood restricted to the parameters
// of interest: at each evaluation point every other floating parameter is
// profiled out at its conditional optimum. Eval returns the profile
// likelihood ratio, the NLL above the global minimum, so values are
// non-negative with the minimum at the best fit.
//
// A ProfiledFunction exclusively owns the NLL it was built from; Close
// releases it. Implementations must support concurrent Eval calls.
type ProfiledFunction interface {
	// POINames returns the parameter-of-interest names in evaluation order
	POINames() []string

	// Eval computes the profile likelihood ratio at the given POI values,
	// ordered as POINames
	Eval(poiValues []float64) (float64, error)

	// Close releases the owned NLL dependency
	Close() error
}
