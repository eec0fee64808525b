// Package gemini implements the gemini-native and gemini-compatible
// protocol families: a parts-array JSON payload with inline-base64 images,
// query-string key authentication, and inline image data in the response.
// The two families share the wire format and differ only in which service
// is on the other end, so one adapter serves both.
package gemini
