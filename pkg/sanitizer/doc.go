// Package sanitizer normalizes user input before validation and storage.
//
// All functions are idempotent - applying them multiple times produces the
// same result. Invalid input is never an error here; it is reduced to an empty
// value and left for the validator to reject.
//
// Normalization includes:
//   - Strings: trim, collapse internal whitespace
//   - Slugs: lowercase, URL-safe, hyphen separated - "React Summit 2024" becomes "react-summit-2024"
//   - Emails: trim and lowercase
//   - Slices: trim items, drop empty values, optionally drop duplicates
package sanitizer
