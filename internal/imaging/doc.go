// Package imaging handles the image I/O around the detection pipeline.
//
// It decodes source photographs from files or byte buffers, encodes results
// as base64 PNG or JPEG for tool responses, parses hex colours, renders the
// binary edge map as a preview image and draws detected boxes over a copy of
// the source for inspection.
//
// # Supported Formats
//
// Decoding registers JPEG, PNG and GIF from the standard library and BMP, TIFF
// and WebP from golang.org/x/image. The format is detected from the file
// contents, not the extension; the extension is only used by IsSupported to
// pick candidate files out of a directory.
//
// # Errors
//
// LoadFile distinguishes a source that cannot be read (ErrorTypeUnreadable)
// from bytes that are not a decodable image (ErrorTypeDecode). Callers that
// process many images treat the second kind as a per-image skip.
package imaging
