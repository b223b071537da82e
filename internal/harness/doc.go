// Package harness runs dasha timeline scenarios as executable checks.
//
// A scenario fixes the inputs of one build and states what the resulting
// schedule must look like. Every scenario also passes the schedule through
// dasha.Verify, so structural invariants are checked even when a scenario
// only asserts on a few Majors.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: moon_quarter
//	description: "Moon anchor, a quarter elapsed, one leap year"
//	input:
//	  reference: "2000-01-01T00:00:00Z"
//	  lord: Moon           # or longitude: 40.5
//	  fraction: 0.25
//	config:
//	  horizon_years: 1
//	  year_length_days: 366
//	interpretations: tables/basic.yaml
//	assertions:
//	  - type: major_lords
//	    lords: [Moon, Mars]
//	  - type: clipped
//	    index: -1
//	    clipped: true
//
// Relative interpretation paths are resolved against the scenario file.
//
// # Assertion Types
//
//   - major_lords: Major lords, in order, equal lords
//   - major_count: exactly count Majors
//   - clipped: the Major at index (negative counts from the end) has the
//     given clipped flag
//   - anchor_days: the first Major lasts days (within a microsecond)
//   - horizon: the schedule ends at the instant at
//   - active: the Major/Sub/SubSub lords active at instant at equal lords
//   - interpretation: the period at level (sub or subsub) active at instant
//     at carries text, or none when text is omitted
//
// A scenario with expect_error instead asserts that the build is rejected
// with that input error code.
//
// # Golden Files
//
// RunWithGolden compares the Major sequence against
// testdata/golden/{name}.golden using canonical JSON. Regenerate with:
//
//	go test ./internal/harness -update
package harness
