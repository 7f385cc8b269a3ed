// Package tasks tracks background processing goroutines with a bounded
// in-flight count and a join point for shutdown.
package tasks
