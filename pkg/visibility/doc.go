// Package visibility computes how much of each on-screen window is actually
// visible.
//
// Windows are painted back to front into a dense identifier bitmap that
// covers the union of all displays. Every cell ends up holding the topmost
// window at that pixel, so a histogram over the bitmap gives the number of
// visible pixels per window. Percentages are taken against each window's
// nominal area, which means windows that hang off the edge of the desktop
// never reach 100%.
//
// The package keeps no state between calls. The bitmap is allocated once
// per call and dropped afterwards.
package visibility
