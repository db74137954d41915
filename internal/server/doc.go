// Package server exposes the recognition pipeline over HTTP.
//
// The API serves a browser extension, so every endpoint speaks JSON and the
// CORS policy is wide open (captures never leave the user's machine except
// to this server, which they run themselves).
//
// # Endpoints
//
//	POST /ocr         image in, recognized text out
//	POST /parse       image in, annotated tokens out
//	POST /parse-text  recognized text in, annotated tokens out
//	GET  /health      per-stage availability
//
// Image endpoints accept either a multipart form with an "image" file field
// or a JSON body with a base64 "image_data" field; an optional "orientation"
// value ("vertical", "horizontal") overrides auto-detection. /parse also
// accepts a JSON "text" field and then behaves like /parse-text.
//
// # Errors
//
// Failures return an envelope with a stable machine-readable kind:
//
//	{"error": {"kind": "InvalidImage", "message": "..."}}
//
// Kinds map onto status codes: invalid input is 400, an unavailable backend
// is 503, a recognition deadline is 504, everything else 500.
package server
