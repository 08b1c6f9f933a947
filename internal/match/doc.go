// Package match implements the name matching engine used to reconcile guild
// members against an attendee roster.
//
// The pipeline is Normalize -> Score -> Matcher -> report: member and attendee
// names are canonicalized, scored with a 0-100 Levenshtein-derived similarity,
// and each attendee is paired with its best-scoring member. Attendees whose
// best score falls below the acceptance threshold are bucketed by group into
// a MissingReport.
//
// All functions are pure and retain no state between calls; a whole run is a
// single linear pass over in-memory slices.
package match
