// Package pipeline chains the recognition stages behind the HTTP API.
//
// A captured image flows decode -> preprocess -> OCR -> tokenize ->
// dictionary resolution. Each stage is owned by its own package; the
// Orchestrator wires them together, maps recognized coordinates back to the
// original image, and keeps stage failures isolated: a token that resolves
// to nothing still appears in the output with an empty definition list,
// because a pop-up dictionary that drops unknown words is useless for the
// words the reader actually needs.
package pipeline
