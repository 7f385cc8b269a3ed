// Package subtitle turns enriched segments into timed caption text in
// native, translated, or bilingual modes, serialized as WebVTT or SubRip.
package subtitle
