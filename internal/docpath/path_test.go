package docpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-generator/internal/diagnostic"
)

func TestValidate_ValidPaths(t *testing.T) {
	tests := []struct {
		path   string
		nested bool
		depth  int
		id     string
	}{
		{"movies", false, 1, "movies"},
		{"movies/*/comments", true, 2, "comments"},
		{"movies/*/comments/*/likes", true, 3, "likes"},
		{"config/global/flags", false, 2, "flags"},
		{"user_profiles", false, 1, "user_profiles"},
		{"Teams-2024/*/members", true, 2, "members"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := Validate(tt.path)
			require.NoError(t, err)

			assert.Equal(t, tt.path, p.String())
			assert.Equal(t, tt.nested, p.IsNested())
			assert.Equal(t, !tt.nested, p.IsRoot())
			assert.Equal(t, tt.depth, p.Depth())
			assert.Equal(t, tt.id, p.CollectionID())

			// Validation is idempotent.
			again, err := Validate(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, again)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code diagnostic.Code
	}{
		{"space", "movies list", diagnostic.CodeIllegalCharacter},
		{"dot", "movies.v2", diagnostic.CodeIllegalCharacter},
		{"unicode", "filmé", diagnostic.CodeIllegalCharacter},
		{"two segments", "a/b", diagnostic.CodePointsToDocument},
		{"document with illegal character", "movies/x.y", diagnostic.CodePointsToDocument},
		{"wildcard document", "movies/*", diagnostic.CodePointsToDocument},
		{"deep document", "movies/*/comments/*", diagnostic.CodePointsToDocument},
		{"wildcard root", "*", diagnostic.CodeInvalidCollectionName},
		{"wildcard collection", "movies/*/*", diagnostic.CodeInvalidCollectionName},
		{"empty", "", diagnostic.CodeInvalidCollectionName},
		{"empty segment", "movies//comments", diagnostic.CodeInvalidCollectionName},
		{"leading slash", "/movies/*", diagnostic.CodeInvalidCollectionName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.path)
			require.Error(t, err)

			var derr *diagnostic.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.code, derr.Code)
			assert.Equal(t, tt.path, derr.Subject)
			assert.NotEmpty(t, derr.Hint)
		})
	}
}

func TestValidate_EvenSegmentsAlwaysPointToDocument(t *testing.T) {
	// Content does not matter once the segment count is even.
	for _, segs := range [][]string{
		{"a", "b"},
		{"a", "*", "b", "c"},
		{"x", "y", "z", "w", "v", "u"},
		{"a", "*"},
		{"a", "b.c"},
		{"a$", "b"},
		{"filmé", "*", "notes", "ü"},
		{"", ""},
	} {
		_, err := Validate(strings.Join(segs, Separator))
		assert.True(t, diagnostic.HasCode(err, diagnostic.CodePointsToDocument), "segments %v", segs)
	}
}

func TestValidate_Segments(t *testing.T) {
	p := MustValidate("movies/*/comments")
	assert.Equal(t, []Segment{
		{Value: "movies", Kind: SegmentLiteral},
		{Value: "*", Kind: SegmentWildcard},
		{Value: "comments", Kind: SegmentLiteral},
	}, p.Segments())
	assert.Equal(t, "wildcard", SegmentWildcard.String())
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		path   string
		parent string
	}{
		{"movies/*/comments", "movies"},
		{"movies/*/comments/*/likes", "movies/*/comments"},
		{"config/global/teams/*/members", "config/global/teams"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := MustValidate(tt.path).Parent()
			require.NoError(t, err)
			assert.Equal(t, tt.parent, got)
		})
	}
}

func TestParentPath_Dangling(t *testing.T) {
	_, err := ParentPath("config/global/flags")
	assert.True(t, diagnostic.HasCode(err, diagnostic.CodeDanglingWildcard))
}

func TestSplitParent(t *testing.T) {
	parent, rest, err := SplitParent("movies/*/comments/*/likes")
	require.NoError(t, err)
	assert.Equal(t, "movies/*/comments", parent)
	assert.Equal(t, "likes", rest)

	parent, rest, err = SplitParent("teams/*/settings/current/flags")
	require.NoError(t, err)
	assert.Equal(t, "teams", parent)
	assert.Equal(t, "settings/current/flags", rest)
}

func TestMustValidate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustValidate("a/b") })
}
