package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	at "collection-generator/internal/analyze/analyzetest"
	"collection-generator/internal/diagnostic"
)

func TestResolveInjections(t *testing.T) {
	r := at.NewRecord(pkg, "Comment").Members(
		at.Field("ID", at.String, "id"),
		at.Field("MovieID", at.Ptr(at.String), "parentId"),
		at.Field("Body", at.String),
		at.Property("DocPath", at.String, true, "path"),
	).Build()

	injections, err := ResolveInjections(r)
	require.NoError(t, err)

	// Settable properties come before plain fields.
	require.Len(t, injections, 3)
	assert.Equal(t, FieldInjection{Kind: InjectDocumentPath, Target: "DocPath", Property: true, Type: at.String}, injections[0])
	assert.Equal(t, FieldInjection{Kind: InjectDocumentID, Target: "ID", Type: at.String}, injections[1])
	assert.Equal(t, InjectParentDocumentID, injections[2].Kind)
	assert.True(t, injections[2].Nullable)

	assert.True(t, Injected(injections, "MovieID"))
	assert.False(t, Injected(injections, "Body"))
}

func TestResolveInjections_AliasOfString(t *testing.T) {
	slug := at.Alias(pkg, "Slug", at.String)
	r := at.NewRecord(pkg, "Movie").Members(at.Field("Slug", slug, "id")).Build()

	injections, err := ResolveInjections(r)
	require.NoError(t, err)
	require.Len(t, injections, 1)
	assert.False(t, injections[0].Nullable)
}

func TestResolveInjections_MultipleDirectives(t *testing.T) {
	// Exclusivity holds for every pair of kinds.
	pairs := [][]string{{"id", "path"}, {"id", "parentId"}, {"path", "parentId"}, {"id", "id"}}

	for _, pair := range pairs {
		r := at.NewRecord(pkg, "Movie").Members(at.Field("ID", at.String, pair...)).Build()

		_, err := ResolveInjections(r)
		derr := requireCode(t, err, diagnostic.CodeMultipleInjectionAnnotations)
		assert.Equal(t, "ID", derr.Member)
	}
}

func TestResolveInjections_NonSettable(t *testing.T) {
	r := at.NewRecord(pkg, "Reaction").Members(
		at.Property("DocID", at.String, false, "id"),
		at.Field("Frozen", at.String, "path"),
	).Build()
	r.Members[1].Settable = false

	_, err := ResolveInjections(r)
	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeNonSettableInjectionTarget,
		diagnostic.CodeNonSettableInjectionTarget,
	}, diagnostic.Codes(err))

	derr := requireCode(t, err, diagnostic.CodeNonSettableInjectionTarget)
	assert.Contains(t, derr.Hint, "SetDocID")
}

func TestResolveInjections_TypeMismatch(t *testing.T) {
	r := at.NewRecord(pkg, "Movie").Members(
		at.Field("ID", at.Int64, "id"),
		at.Field("Path", at.Slice(at.String), "path"),
		at.Field("Parent", at.Ptr(at.Ptr(at.String)), "parentId"),
	).Build()

	_, err := ResolveInjections(r)
	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeInjectionTypeMismatch,
		diagnostic.CodeInjectionTypeMismatch,
		diagnostic.CodeInjectionTypeMismatch,
	}, diagnostic.Codes(err))
}

func TestResolveInjections_UnknownDirectivesIgnored(t *testing.T) {
	r := at.NewRecord(pkg, "Movie").Members(at.Field("ID", at.Int, "omitempty")).Build()

	injections, err := ResolveInjections(r)
	require.NoError(t, err)
	assert.Empty(t, injections)
}

func TestInjectionKind_Names(t *testing.T) {
	for _, k := range []InjectionKind{InjectDocumentID, InjectDocumentPath, InjectParentDocumentID} {
		parsed, ok := ParseInjectionKind(k.Directive())
		require.True(t, ok)
		assert.Equal(t, k, parsed)
	}

	assert.Equal(t, "ParentDocumentId", InjectParentDocumentID.String())
	_, ok := ParseInjectionKind("parent")
	assert.False(t, ok)
}
