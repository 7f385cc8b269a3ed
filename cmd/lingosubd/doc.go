// Command lingosubd is the lingosub command line interface. It imports media
// into the library, runs the subtitle processing pipeline, renders VTT and
// SRT captions, builds vocabulary decks, and manages known-word lists.
package main
