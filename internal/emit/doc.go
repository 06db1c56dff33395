// Package emit turns a collection graph into Go source for a typed
// Firestore data-access layer.
//
// Each Emitter renders one facet of a collection (references, snapshots,
// queries, derived codecs) as a Fragment. The Dispatcher runs every
// registered emitter over the graph in declaration order; Assemble groups the
// fragments into one gofmt-ed file per collection.
//
// Generation uses text/template + go/format, like hand-written code:
//   - reference: typed CollectionRef/DocumentRef wrappers and subcollection accessors
//   - snapshot: decoding plus document metadata injection
//   - query: Where/OrderBy helpers over queryable fields
//   - codec: Decode<T>/Encode<T> for records relying on derived serialization
package emit
