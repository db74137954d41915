// Package imaging prepares captured manga page regions for OCR.
//
// The package implements the preprocessing stage of the pipeline: decoding
// request bytes into a pixel buffer, normalizing the buffer for recognition
// (grayscale, contrast stretch, binarization, small-text upscaling), and
// classifying the dominant text direction of the block.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward.
//
// # Statelessness
//
// Every function is a pure function of its input. Decoded and preprocessed
// buffers are created per request and discarded after OCR; nothing in this
// package caches images across requests.
//
// # Scale Factor
//
// Preprocess may upscale images whose estimated glyph height is below the
// range Tesseract recognizes reliably. The applied factor is reported in the
// result so OCR bounding boxes can be mapped back to the original image's
// coordinates by dividing by it.
//
// # Error Handling
//
// Decode rejects corrupt or unsupported payloads with an
// apperrors.KindInvalidImage classification. Preprocessing itself cannot
// fail once a valid buffer exists.
package imaging
