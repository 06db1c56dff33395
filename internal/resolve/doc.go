// Package resolve performs the per-record resolution passes of the schema
// compiler: the serialization contract, field injections and queryable
// field selection. Every pass looks at a single record type and never at
// the collection graph, so passes for different records may run
// concurrently.
package resolve
