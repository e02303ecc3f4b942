// Package batch runs label detection and cropping over many images.
//
// Each image is processed in isolation: a file that cannot be decoded or
// that fails during detection contributes no crops, is recorded in the
// summary and does not stop the run. Images are processed concurrently by a
// bounded worker pool; each worker owns the image it decoded.
//
// A run writes the crop files, a JSON manifest describing every image and,
// optionally, a ZIP archive of all crops into the output directory.
package batch
