// Package lexfilter decides how learnable each spoken segment is for a
// specific viewer and flags every token's known/unknown status.
package lexfilter
