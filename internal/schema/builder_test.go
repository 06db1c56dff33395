package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-generator/internal/analyze"
	at "collection-generator/internal/analyze/analyzetest"
	"collection-generator/internal/diagnostic"
	"collection-generator/internal/resolve"
)

const pkg = "example/movies"

func movieRecord() *analyze.RecordType {
	return at.NewRecord(pkg, "Movie").
		Decoder().
		Encoder().
		Members(
			at.Field("ID", at.String, "id"),
			at.Field("Title", at.String),
			at.Field("Year", at.Int),
		).
		Build()
}

func commentRecord() *analyze.RecordType {
	return at.NewRecord(pkg, "Comment").
		Derivable().
		Members(
			at.Field("ID", at.String, "id"),
			at.Field("MovieID", at.Ptr(at.String), "parentId"),
			at.Field("Body", at.String),
		).
		Build()
}

func decl(path string, r *analyze.RecordType) analyze.Declaration {
	return analyze.Declaration{Path: path, Record: r, Site: r.Pos}
}

func build(t *testing.T, decls ...analyze.Declaration) (*Graph, error) {
	t.Helper()

	return NewBuilder().Build(context.Background(), decls)
}

func paths(cs []*Collection) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Path.String())
	}

	return out
}

func TestBuild_RootWithChild(t *testing.T) {
	g, err := build(t, decl("movies", movieRecord()), decl("movies/*/comments", commentRecord()))
	require.NoError(t, err)

	roots := g.Roots()
	require.Len(t, roots, 1)

	movies := roots[0]
	assert.Equal(t, "movies", movies.Name)
	assert.True(t, movies.IsRoot())
	assert.Nil(t, movies.Parent())

	children := movies.Children()
	require.Len(t, children, 1)

	comments := children[0]
	assert.Equal(t, "comments", comments.Name)
	assert.False(t, comments.IsRoot())
	assert.Same(t, movies, comments.Parent())
	assert.Empty(t, comments.Children())
}

func TestBuild_OrphanSubcollection(t *testing.T) {
	_, err := build(t, decl("movies/*/comments", commentRecord()))
	require.Error(t, err)

	errs := diagnostic.Flatten(err)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostic.CodeOrphanSubcollection, errs[0].Code)
	assert.Equal(t, "movies/*/comments", errs[0].Subject)
	assert.Contains(t, errs[0].Message, `"movies"`)
	assert.Contains(t, errs[0].Message, `"movies/*/comments"`)
	assert.NotContains(t, errs[0].Hint, "did you mean")
}

func TestBuild_OrphanSuggestsClosestPath(t *testing.T) {
	_, err := build(t, decl("movie", movieRecord()), decl("movies/*/comments", commentRecord()))

	errs := diagnostic.Flatten(err)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostic.CodeOrphanSubcollection, errs[0].Code)
	assert.Contains(t, errs[0].Hint, `did you mean "movie"?`)
}

func TestBuild_PathPointsToDocument(t *testing.T) {
	_, err := build(t, decl("a/b", movieRecord()))

	assert.Equal(t, []diagnostic.Code{diagnostic.CodePointsToDocument}, diagnostic.Codes(err))
}

func TestBuild_MissingDecoder(t *testing.T) {
	r := at.NewRecord(pkg, "Movie").Encoder().Build()

	_, err := build(t, decl("movies", r))

	assert.Equal(t, []diagnostic.Code{diagnostic.CodeMissingDecoder}, diagnostic.Codes(err))
}

func TestBuild_NonNullableParentIDOnRoot(t *testing.T) {
	r := at.NewRecord(pkg, "Comment").
		Derivable().
		Members(at.Field("MovieID", at.String, "parentId")).
		Build()

	g, err := build(t, decl("comments", r))
	require.NoError(t, err)

	c, ok := g.Lookup("comments")
	require.True(t, ok)

	fi, ok := c.Injection(resolve.InjectParentDocumentID)
	require.True(t, ok)
	assert.False(t, fi.Nullable)
}

func TestBuild_ParentLinkProperty(t *testing.T) {
	reaction := at.NewRecord(pkg, "Reaction").Derivable().Build()
	studio := at.NewRecord(pkg, "Studio").Derivable().Build()

	g, err := build(t,
		decl("movies/*/comments/*/reactions", reaction),
		decl("movies", movieRecord()),
		decl("movies/*/comments", commentRecord()),
		decl("movies/*/reviews", commentRecord()),
		decl("catalog/global/studios", studio),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"movies", "catalog/global/studios"}, paths(g.Roots()))

	for _, c := range g.Collections() {
		if c.IsRoot() {
			assert.Nil(t, c.Parent(), c.Path.String())
			continue
		}

		parent, err := c.Path.Parent()
		require.NoError(t, err)
		require.NotNil(t, c.Parent(), c.Path.String())
		assert.Equal(t, parent, c.Parent().Path.String())

		seen := 0
		for _, sibling := range c.Parent().Children() {
			if sibling == c {
				seen++
			}
		}

		assert.Equal(t, 1, seen, "%s must appear once among its parent's children", c.Path)
	}

	movies, _ := g.Lookup("movies")
	assert.Equal(t, []string{"movies/*/comments", "movies/*/reviews"}, paths(movies.Children()))

	reactions, _ := g.Lookup("movies/*/comments/*/reactions")
	assert.Equal(t, []string{"movies", "movies/*/comments"}, paths(reactions.Ancestors()))
}

func TestBuild_IndependentOfDeclarationOrder(t *testing.T) {
	forward, err := build(t, decl("movies", movieRecord()), decl("movies/*/comments", commentRecord()))
	require.NoError(t, err)

	backward, err := build(t, decl("movies/*/comments", commentRecord()), decl("movies", movieRecord()))
	require.NoError(t, err)

	for _, g := range []*Graph{forward, backward} {
		c, ok := g.Lookup("movies/*/comments")
		require.True(t, ok)
		assert.Equal(t, "movies", c.Parent().Path.String())
	}

	assert.Equal(t, []string{"movies/*/comments", "movies"}, paths(backward.Collections()))
}

func TestBuild_DefaultAndExplicitNames(t *testing.T) {
	g, err := build(t,
		decl("user-profiles", movieRecord()),
		analyze.Declaration{Path: "movies", Name: "films", Record: commentRecord()},
		decl("audit_log", commentRecord()),
	)
	require.NoError(t, err)

	var names []string
	for _, c := range g.Collections() {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"userProfiles", "films", "auditLog"}, names)
}

func TestBuild_DuplicateCollection(t *testing.T) {
	_, err := build(t, decl("movies", movieRecord()), decl("movies", commentRecord()))

	errs := diagnostic.Flatten(err)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostic.CodeDuplicateCollection, errs[0].Code)
	assert.Contains(t, errs[0].Message, "movies.Movie")
	assert.Contains(t, errs[0].Message, "movies.Comment")
}

func TestBuild_ErrorsInDeclarationOrder(t *testing.T) {
	broken := at.NewRecord(pkg, "Broken").Build()

	_, err := build(t,
		decl("a/b", movieRecord()),
		decl("broken", broken),
		decl("bad$path", movieRecord()),
		decl("again", broken),
	)

	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodePointsToDocument,
		diagnostic.CodeMissingDecoder,
		diagnostic.CodeMissingEncoder,
		diagnostic.CodeIllegalCharacter,
	}, diagnostic.Codes(err), "type errors are reported once, at the first declaration using the type")
}

func TestBuild_GraphErrorsWaitForValidDeclarations(t *testing.T) {
	_, err := build(t, decl("movies/*/comments", commentRecord()), decl("a/b", movieRecord()))

	assert.Equal(t, []diagnostic.Code{diagnostic.CodePointsToDocument}, diagnostic.Codes(err))
}

func TestBuild_MissingRecord(t *testing.T) {
	_, err := build(t, analyze.Declaration{Path: "movies", Site: "movies.go:3"})

	assert.Equal(t, []diagnostic.Code{diagnostic.CodeUnknown}, diagnostic.Codes(err))
}

func TestBuild_ResolvesDescriptor(t *testing.T) {
	g, err := NewBuilder(WithWorkers(1)).Build(context.Background(), []analyze.Declaration{
		decl("movies", movieRecord()),
		decl("movies/*/comments", commentRecord()),
	})
	require.NoError(t, err)

	movies, _ := g.Lookup("movies")
	assert.False(t, movies.Codec.IsDerived())
	assert.Equal(t, "MovieFromMap", movies.Codec.Decode.Name)
	require.Len(t, movies.Injections, 1)
	assert.Equal(t, "ID", movies.Injections[0].Target)

	var queryable []string
	for _, q := range movies.Queryable {
		queryable = append(queryable, q.Name)
	}

	assert.Equal(t, []string{"Title", "Year"}, queryable)

	comments, _ := g.Lookup("movies/*/comments")
	assert.True(t, comments.Codec.IsDerived())
	assert.Equal(t, "DecodeComment", comments.Codec.Decode.Name)
	assert.Equal(t, "EncodeComment", comments.Codec.Encode.Name)
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder().Build(ctx, []analyze.Declaration{decl("movies", movieRecord())})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_Empty(t *testing.T) {
	g, err := build(t)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Roots())
}

func TestGraph_Walk(t *testing.T) {
	reaction := at.NewRecord(pkg, "Reaction").Derivable().Build()

	g, err := build(t,
		decl("movies", movieRecord()),
		decl("users", commentRecord()),
		decl("movies/*/comments", commentRecord()),
		decl("movies/*/comments/*/reactions", reaction),
	)
	require.NoError(t, err)

	var visited []string

	err = g.Walk(func(c *Collection, depth int) error {
		visited = append(visited, c.Name+"@"+string(rune('0'+depth)))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"movies@0", "comments@1", "reactions@2", "users@0"}, visited)
}
