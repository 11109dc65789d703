// Package newsbrief extracts the main text of a news article, sends it to a
// remote summarization service and renders the summary, sentiment and
// related-news links it returns.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package newsbrief
