// Package scenario describes a sequence of insulin doses, meals and
// overrides over a time horizon and samples the variable-rate insulin model
// and the delayed absorption model across it.
//
// Scenario files are YAML or JSON. Event times are offsets from the
// scenario start:
//
//	name: lunch-run
//	start: 2025-06-09T12:00:00Z
//	horizon: 6h
//	step: 5m
//	insulin_curve:
//	  type: exponential
//	  conf:
//	    preset: rapid_adult
//	doses:
//	  - offset: 0s
//	    units: 4
//	meals:
//	  - offset: 0s
//	    grams: 60
//	    absorption_time: 3h
//	overrides:
//	  - name: run
//	    role: exercise
//	    offset: 30m
//	    duration: 30m
//	exercise:
//	  insulin_rate: 1.5
//	  suspend_carbs: true
package scenario
