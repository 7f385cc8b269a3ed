// Package language normalizes user-supplied language identifiers to the
// ISO 639-1 codes used throughout processing and storage.
package language
