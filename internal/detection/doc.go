// Package detection locates printed label regions in a photograph.
//
// A label is a roughly rectangular patch of high-contrast print (text, barcodes,
// borders) on a plain background. The package finds such patches without any
// learned model, using a fixed pipeline of pure stages:
//
//  1. Edge extraction: grayscale, 3x3 Gaussian smoothing, Sobel gradient
//     magnitude, binary threshold (EdgeMap).
//  2. Region finding: morphological closing plus one dilation, outer connected
//     components, geometric filters (FindRegions).
//  3. Overlap resolution: greedy largest-first suppression of overlapping and
//     nested boxes (ResolveOverlaps).
//  4. Spatial sorting: row-major reading order (SortReadingOrder).
//
// Detect runs all four stages. Every stage takes an Options value and returns a
// fresh result; nothing is mutated in place and no state survives between calls,
// so images can be processed concurrently by the caller.
//
// # Coordinate System
//
// All coordinates are 0-based pixel offsets from the top-left corner of the
// analysed image, regardless of the source image's Bounds().Min:
//   - X increases rightward
//   - Y increases downward
//   - A BoundingBox covers columns [X, X+Width) and rows [Y, Y+Height)
//
// # Thresholds
//
// The defaults returned by DefaultOptions are tuned for phone photos of product
// labels at roughly 1-4 megapixels. Smaller images usually need a lower MinSize;
// noisy backgrounds usually need a higher EdgeThreshold.
package detection
