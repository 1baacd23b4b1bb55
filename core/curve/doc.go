// Package curve defines the base pharmacokinetic curves consumed by the
// effect models and ships the standard insulin and carbohydrate curves.
//
// There are two families. An InsulinCurve maps elapsed time since a dose to
// the fraction of effect still to come. A CarbCurve works on fractional
// position through a known absorption time and maps it to the fraction of
// carbohydrates absorbed. The time-warping models in core/absorption and
// core/insulin depend only on the family they need.
//
// Curves can be built from configuration through NewInsulinCurve and
// NewCarbCurve, which look the type name up in a registry.
package curve
