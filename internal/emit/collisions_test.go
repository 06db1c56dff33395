package emit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-generator/internal/analyze"
	at "collection-generator/internal/analyze/analyzetest"
	"collection-generator/internal/diagnostic"
	"collection-generator/internal/schema"
)

func noteRecord(pkgPath string) *analyze.RecordType {
	return at.NewRecord(pkgPath, "Note").
		Derivable().
		Members(at.Field("Text", at.String)).
		Build()
}

func buildGraph(t *testing.T, decls ...analyze.Declaration) *schema.Graph {
	t.Helper()

	g, err := schema.NewBuilder().Build(context.Background(), decls)
	require.NoError(t, err)

	return g
}

func TestCheckNames(t *testing.T) {
	note := noteRecord(pkg)

	tests := []struct {
		name    string
		decls   []analyze.Declaration
		subject string
		message string
	}{
		{
			name: "roots under different documents",
			decls: []analyze.Declaration{
				{Path: "movies", Record: note, Site: "a.go:1"},
				{Path: "catalog/global/movies", Record: note, Site: "b.go:2"},
			},
			subject: "catalog/global/movies",
			message: `generated identifier Movies is also produced by "movies" (a.go:1 and b.go:2)`,
		},
		{
			name: "root named like a nested collection",
			decls: []analyze.Declaration{
				{Path: "movies", Record: note},
				{Path: "movies_comments", Record: note},
				{Path: "movies/*/comments", Record: note},
			},
			subject: "movies/*/comments",
			message: "identifier MoviesComments",
		},
		{
			name: "sibling names with one casing",
			decls: []analyze.Declaration{
				{Path: "movies", Record: note},
				{Path: "movies/*/user-profiles", Record: note},
				{Path: "movies/*/user_profiles", Record: note},
			},
			subject: "movies/*/user_profiles",
			message: "identifier MoviesUserProfiles",
		},
		{
			name: "accessor shadowing a document method",
			decls: []analyze.Declaration{
				{Path: "movies", Record: note},
				{Path: "movies/*/set", Record: note},
			},
			subject: "movies/*/set",
			message: "accessor Set clashes with a method of MoviesDocumentRef",
		},
		{
			name: "derived codecs of same-named records",
			decls: []analyze.Declaration{
				{Path: "notes", Record: note, Site: "a.go:1"},
				{Path: "memos", Record: noteRecord("example/memos"), Site: "b.go:1"},
			},
			subject: "memos",
			message: "derived codec DecodeNote for example/memos.Note (b.go:1) is also derived for example/movies.Note (a.go:1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckNames(buildGraph(t, tt.decls...))
			require.Error(t, err)

			errs := diagnostic.Flatten(err)
			require.Len(t, errs, 1)
			assert.Equal(t, diagnostic.CodeNameCollision, errs[0].Code)
			assert.Equal(t, tt.subject, errs[0].Subject)
			assert.Contains(t, errs[0].Message, tt.message)
			assert.NotEmpty(t, errs[0].Hint)
		})
	}
}

func TestCheckNames_SharedRecordIsNotACollision(t *testing.T) {
	note := noteRecord(pkg)

	err := CheckNames(buildGraph(t,
		analyze.Declaration{Path: "notes", Record: note},
		analyze.Declaration{Path: "archive/*/notes", Record: note},
		analyze.Declaration{Path: "archive", Record: note},
	))
	assert.NoError(t, err)
	assert.NoError(t, CheckNames(testGraph(t)))
}

func TestDispatcher_RejectsNameCollisions(t *testing.T) {
	note := noteRecord(pkg)
	g := buildGraph(t,
		analyze.Declaration{Path: "movies", Record: note},
		analyze.Declaration{Path: "catalog/global/movies", Record: note},
	)

	fragments, err := newDispatcher(t).Generate(g)
	require.Error(t, err)
	assert.Nil(t, fragments)
	assert.True(t, diagnostic.HasCode(err, diagnostic.CodeNameCollision))
}
