// Package services defines the shared error taxonomy used across the
// processing pipeline and its collaborators.
package services
