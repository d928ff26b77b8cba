// Package tosfetch retrieves the readable text of Terms & Conditions pages.
// It tries a chain of retrieval backends (plain HTTP, HTTP/2 with an
// alternate header profile, headless browser), isolates the main content
// region of the returned markup, normalizes it and rejects results that are
// too short to be a legal document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, http/).
package tosfetch
