// Package docpath validates collection path patterns.
//
// A collection path is a "/"-separated list of segments that alternate
// between collection names (literals) and document placeholders. The
// placeholder "*" stands for any document id and marks a nesting point:
//
//	movies                 root collection
//	movies/*/comments      comments of any movie
//	config/global/flags    root collection under a fixed document
//
// A path always names a collection, so it has an odd number of segments.
package docpath
