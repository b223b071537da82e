// Package dasha builds Vimshottari Dasha timelines.
//
// A timeline is a three-level tree of periods (Major, Sub, SubSub) covering
// the span from a reference instant to a configured horizon. Every node is
// attributed to one of the nine lords of package lord.
//
// ARCHITECTURE:
//
// Anchor:
// The reference instant falls partway through the first Major period. Given
// the fraction f of that lord's natural period already elapsed, the first
// Major lasts D*(1-f) where D is weight*YearLength. AnchorFromLongitude maps a
// sidereal lunar longitude to (lord, f) using 27 divisions of 13°20′.
//
// Segmentation:
// Each node is split into nine children, rotated to start at the node's own
// lord, with durations proportional to the lords' weights. The last child is
// given whatever remains of the parent, so children always tile the parent
// exactly. One recursive function handles both the Sub and SubSub levels.
//
// Horizon:
// Majors follow the fixed cycle until one would end past the horizon. That
// Major is clipped to end at the horizon and is the last one emitted. Its
// children are allocated over the clipped span, never the natural one.
//
// INVARIANTS (checked by Verify):
//   - Children are contiguous, first starts at parent start, last ends at parent end
//   - Child lords equal lord.Rotate(parent lord)
//   - Major lords follow the cycle from the start lord
//   - Majors tile [Reference, Horizon)
//
// A Builder holds only immutable configuration. Build allocates a fresh tree
// per call and is safe for concurrent use.
package dasha
