package diagnostic

import "collection-generator/internal/common"

// Code identifies one kind of compile-time failure.
type Code int

const (
	CodeUnknown Code = iota

	// Path errors.
	CodeIllegalCharacter
	CodePointsToDocument
	CodeInvalidCollectionName

	// Serialization errors.
	CodeMissingDecoder
	CodeMissingEncoder
	CodeIncompatibleDecoderSignature
	CodeIncompatibleEncoderSignature

	// Injection errors.
	CodeMultipleInjectionAnnotations
	CodeNonSettableInjectionTarget
	CodeInjectionTypeMismatch

	// Graph errors.
	CodeDanglingWildcard
	CodeOrphanSubcollection
	CodeDuplicateCollection

	// Naming errors.
	CodeNameCollision
)

// String returns the code name as used in diagnostics output.
func (c Code) String() string {
	switch c {
	case CodeIllegalCharacter:
		return "IllegalCharacter"
	case CodePointsToDocument:
		return "PointsToDocument"
	case CodeInvalidCollectionName:
		return "InvalidCollectionName"
	case CodeMissingDecoder:
		return "MissingDecoder"
	case CodeMissingEncoder:
		return "MissingEncoder"
	case CodeIncompatibleDecoderSignature:
		return "IncompatibleDecoderSignature"
	case CodeIncompatibleEncoderSignature:
		return "IncompatibleEncoderSignature"
	case CodeMultipleInjectionAnnotations:
		return "MultipleInjectionAnnotations"
	case CodeNonSettableInjectionTarget:
		return "NonSettableInjectionTarget"
	case CodeInjectionTypeMismatch:
		return "InjectionTypeMismatch"
	case CodeDanglingWildcard:
		return "DanglingWildcard"
	case CodeOrphanSubcollection:
		return "OrphanSubcollection"
	case CodeDuplicateCollection:
		return "DuplicateCollection"
	case CodeNameCollision:
		return "NameCollision"
	default:
		return common.UnknownStr
	}
}

// Category groups codes by the compiler stage that produces them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryPath
	CategorySerialization
	CategoryInjection
	CategoryGraph
	CategoryNaming
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryPath:
		return "PathError"
	case CategorySerialization:
		return "SerializationError"
	case CategoryInjection:
		return "InjectionError"
	case CategoryGraph:
		return "GraphError"
	case CategoryNaming:
		return "NamingError"
	default:
		return common.UnknownStr
	}
}

// Category returns the category the code belongs to.
func (c Code) Category() Category {
	switch c {
	case CodeIllegalCharacter, CodePointsToDocument, CodeInvalidCollectionName:
		return CategoryPath
	case CodeMissingDecoder, CodeMissingEncoder,
		CodeIncompatibleDecoderSignature, CodeIncompatibleEncoderSignature:
		return CategorySerialization
	case CodeMultipleInjectionAnnotations, CodeNonSettableInjectionTarget, CodeInjectionTypeMismatch:
		return CategoryInjection
	case CodeDanglingWildcard, CodeOrphanSubcollection, CodeDuplicateCollection:
		return CategoryGraph
	case CodeNameCollision:
		return CategoryNaming
	default:
		return CategoryUnknown
	}
}
