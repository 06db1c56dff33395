package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-generator/internal/analyze"
	at "collection-generator/internal/analyze/analyzetest"
	"collection-generator/internal/schema"
)

func TestWarnings_NoQueryableFields(t *testing.T) {
	blob := at.NewRecord("example/store", "Blob").
		Derivable().
		Members(
			at.Field("ID", at.String, "id"),
			at.Field("Meta", at.DocMap),
		).
		Build()
	tag := at.NewRecord("example/store", "Tag").
		Derivable().
		Members(at.Field("Label", at.String)).
		Build()

	graph, err := schema.NewBuilder().Build(context.Background(), []analyze.Declaration{
		{Path: "blobs", Record: blob, Site: "blob.go:1"},
		{Path: "tags", Record: tag, Site: "tag.go:1"},
	})
	require.NoError(t, err)

	diags := warnings(graph)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "blobs", diags.Warnings[0].Subject)
	assert.False(t, diags.HasErrors())
}
