// Package crop turns ordered detection boxes into captioned, independently
// owned crop images and writes them as JPEG files.
//
// Ordinals are assigned in the order boxes are given, which for boxes from
// detection.Detect is reading order. A box whose margin-expanded rectangle
// has no area inside the image is skipped and counted as degenerate; skipped
// boxes do not consume an ordinal, so the emitted ordinals are always 1..N.
//
// Each crop is named <stem>_crop_<NN> (NN zero-padded to two digits) and that
// name is drawn on a plate in the crop's bottom-left corner.
package crop
