package resolve

import (
	"errors"
	"fmt"

	"collection-generator/internal/analyze"
	"collection-generator/internal/common"
	"collection-generator/internal/diagnostic"
)

const (
	// DecoderSuffix names the decoder constructor: <Type>FromMap.
	DecoderSuffix = "FromMap"
	// EncoderMethod names the encoder method.
	EncoderMethod = "ToMap"
	// DerivedDecoderPrefix names synthesized decoders: Decode<Type>.
	DerivedDecoderPrefix = "Decode"
	// DerivedEncoderPrefix names synthesized encoders: Encode<Type>.
	DerivedEncoderPrefix = "Encode"
)

// CallKind tells how a codec function is provided.
type CallKind int

const (
	// CallDeclared refers to a function or method written by the user.
	CallDeclared CallKind = iota
	// CallDerived is a named reference to a function generated from the
	// record's structure; it does not exist at compile time.
	CallDerived
)

// String returns a human-readable representation of the CallKind.
func (k CallKind) String() string {
	switch k {
	case CallDeclared:
		return "declared"
	case CallDerived:
		return "derived"
	default:
		return common.UnknownStr
	}
}

// Call references one side of a serialization contract.
type Call struct {
	Kind CallKind
	// Name is the function (decode) or method (declared encode) name.
	Name string
	// ReturnsPointer is set for decoders returning *T.
	ReturnsPointer bool
	// ReturnsError is set when the call has a trailing error result.
	ReturnsError bool
}

// Codec is the resolved decode/encode contract of a record type.
type Codec struct {
	Decode Call
	Encode Call
}

// IsDerived reports whether any side relies on a derived function.
func (c Codec) IsDerived() bool {
	return c.Decode.Kind == CallDerived || c.Encode.Kind == CallDerived
}

// DecoderName returns the conventional decoder name for a type.
func DecoderName(typeName string) string {
	return typeName + DecoderSuffix
}

// DerivedDecoderName returns the synthesized decoder name for a type.
func DerivedDecoderName(typeName string) string {
	return DerivedDecoderPrefix + typeName
}

// DerivedEncoderName returns the synthesized encoder name for a type.
func DerivedEncoderName(typeName string) string {
	return DerivedEncoderPrefix + typeName
}

// ResolveCodec determines how instances of r are decoded from and encoded
// to map[string]any. Decoder and encoder problems are both reported.
func ResolveCodec(r *analyze.RecordType) (Codec, error) {
	dec, decErr := resolveDecoder(r)
	enc, encErr := resolveEncoder(r)

	if err := errors.Join(decErr, encErr); err != nil {
		return Codec{}, err
	}

	return Codec{Decode: dec, Encode: enc}, nil
}

func resolveDecoder(r *analyze.RecordType) (Call, error) {
	name := DecoderName(r.Name())
	subject := r.ID.Short()

	if fn, ok := r.Constructor(name); ok {
		if reason := decoderMismatch(r, fn); reason != "" {
			return Call{}, diagnostic.Newf(diagnostic.CodeIncompatibleDecoderSignature, subject, name,
				fmt.Sprintf("declare func %s(m map[string]any) (*%s, error)", name, r.Name()),
				"decoder %s %s", name, reason)
		}

		values := fn.ValueResults()

		return Call{
			Kind:           CallDeclared,
			Name:           name,
			ReturnsPointer: values[0].Kind == analyze.TypeKindPointer,
			ReturnsError:   fn.ReturnsError(),
		}, nil
	}

	if r.Derivable {
		return Call{
			Kind:           CallDerived,
			Name:           DerivedDecoderName(r.Name()),
			ReturnsPointer: true,
			ReturnsError:   true,
		}, nil
	}

	return Call{}, diagnostic.Newf(diagnostic.CodeMissingDecoder, subject, "",
		fmt.Sprintf("declare func %s(m map[string]any) (*%s, error) or mark the type with %sderive",
			name, r.Name(), analyze.DirectivePrefix),
		"type %s has no decoder", r.Name())
}

func decoderMismatch(r *analyze.RecordType, fn *analyze.Callable) string {
	if len(fn.Params) != 1 {
		return fmt.Sprintf("takes %d parameters, want exactly 1", len(fn.Params))
	}

	p := fn.Params[0]
	if p.Variadic {
		return "takes a variadic parameter, want one required map[string]any"
	}

	if !p.Type.IsStringMap() {
		return fmt.Sprintf("takes %s, want map[string]any", p.Type.TypeString(r.ID.PkgPath))
	}

	values := fn.ValueResults()
	if len(values) != 1 || !values[0].Is(r.ID) {
		return fmt.Sprintf("must return %s or *%s (optionally with error)", r.Name(), r.Name())
	}

	return ""
}

func resolveEncoder(r *analyze.RecordType) (Call, error) {
	subject := r.ID.Short()

	if m, ok := r.Method(EncoderMethod); ok {
		if reason := encoderMismatch(r, m); reason != "" {
			return Call{}, diagnostic.Newf(diagnostic.CodeIncompatibleEncoderSignature, subject, EncoderMethod,
				fmt.Sprintf("declare func (x *%s) %s() map[string]any", r.Name(), EncoderMethod),
				"encoder %s %s", EncoderMethod, reason)
		}

		return Call{
			Kind:         CallDeclared,
			Name:         EncoderMethod,
			ReturnsError: m.ReturnsError(),
		}, nil
	}

	if r.Derivable {
		return Call{
			Kind:         CallDerived,
			Name:         DerivedEncoderName(r.Name()),
			ReturnsError: false,
		}, nil
	}

	return Call{}, diagnostic.Newf(diagnostic.CodeMissingEncoder, subject, "",
		fmt.Sprintf("declare func (x *%s) %s() map[string]any or mark the type with %sderive",
			r.Name(), EncoderMethod, analyze.DirectivePrefix),
		"type %s has no encoder", r.Name())
}

func encoderMismatch(r *analyze.RecordType, m *analyze.Callable) string {
	if len(m.Params) != 0 {
		return fmt.Sprintf("takes %d parameters, want none", len(m.Params))
	}

	values := m.ValueResults()
	if len(values) != 1 {
		return fmt.Sprintf("returns %d values, want map[string]any", len(values))
	}

	if !values[0].IsStringMap() {
		return fmt.Sprintf("returns %s, want map[string]any", values[0].TypeString(r.ID.PkgPath))
	}

	return ""
}
