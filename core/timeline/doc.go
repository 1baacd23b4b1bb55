// Package timeline holds validated lists of time periods during which an
// effect runs at a non-normal rate. Periods hold zero-rate (suspended)
// spans; Rated holds spans tagged with a rate multiplier and can partition a
// query interval into a contiguous, gap-free sequence of rated spans.
//
// Both types are checked once at construction: periods must be sorted by
// start and must not overlap. Values are immutable afterwards and safe for
// concurrent use.
package timeline
