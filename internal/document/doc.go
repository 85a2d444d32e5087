// Package document models a text file as an ordered sequence of lines and
// locates marker-delimited regions inside it.
//
// A Document is never edited in place. Callers scan it for regions, split it
// into segments and render a new Document from those segments.
package document
