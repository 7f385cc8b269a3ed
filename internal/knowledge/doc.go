// Package knowledge tracks which vocabulary a user already knows.
package knowledge
