// Package ocr provides Japanese text recognition for preprocessed page
// captures using Tesseract.
//
// The recognition backend hides behind the Engine interface so alternative
// engines can be substituted without touching the orchestrator. The package
// ships one implementation, TesseractEngine (via gosseract/v2), plus a Pool
// wrapper that bounds concurrent recognitions and enforces the per-call
// deadline.
//
// # Prerequisites
//
// Tesseract must be installed on the system together with the Japanese
// language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn tesseract-ocr-jpn-vert
//   - macOS: brew install tesseract tesseract-lang
//
// A non-standard traineddata location can be pointed at with the
// YOMIGO_TESSDATA_PREFIX environment variable.
//
// # Reading Order
//
// Recognized lines are returned in reading order: top-to-bottom then
// right-to-left for vertical manga text, top-to-bottom then left-to-right
// for horizontal text. OrderLines applies the convention for a given
// orientation.
//
// # Confidence
//
// Every line carries a confidence score (0.0 to 1.0). Lines below the
// configured threshold are flagged LowConfidence but are always returned,
// never dropped; the caller decides whether to surface them.
//
// # Error Handling
//
// Failures are classified with apperrors kinds:
//   - KindOcrUnavailable: the backend cannot be initialized or reached
//   - KindOcrTimeout: recognition exceeded the configured deadline
//
// Both are reported to the caller, never silently swallowed.
package ocr
