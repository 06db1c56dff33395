// Package analyze provides package loading and record type extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build the
// reflective descriptors consumed by the schema compiler, and to discover
// collection declarations written as comment directives.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (basic/struct/pointer/slice/map/alias/external)
//   - RecordType: a record's members, constructors, methods and serializer signal
//   - Declaration: one raw collection declaration (path, name, record type)
//
// Directives recognised by the loader:
//
//	//docstore:collection path=movies/*/comments name=comments
//	//docstore:derive
//	Field string `docstore:"id"`
package analyze
