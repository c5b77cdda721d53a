package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/prisma-infer/pkg/prisma"
)

func TestSummarizeModels(t *testing.T) {
	records := []prisma.Record{
		prisma.ObjectOf("user_name", "a", "tasks", []any{map[string]any{"title": "t"}}),
		prisma.ObjectOf("user_name", nil),
	}
	result := prisma.Infer("User", records, &prisma.Options{NormalizeArrays: true, CamelCaseFields: true})

	models := SummarizeModels(result)
	require.Len(t, models, 2)

	root := models[0]
	assert.Equal(t, "User", root.Name)
	assert.Empty(t, root.Parent)
	assert.True(t, root.SyntheticID)
	require.Len(t, root.Fields, 2)
	assert.Equal(t, FieldSummary{
		Name:     "userName",
		Source:   "user_name",
		Type:     "String",
		Optional: true,
		Present:  2,
		Nulls:    1,
	}, root.Fields[0])
	assert.Equal(t, "UserTasks[]", root.Fields[1].Type)

	child := models[1]
	assert.Equal(t, "UserTasks", child.Name)
	assert.Equal(t, "User", child.Parent)

	var relation *FieldSummary
	for i := range child.Fields {
		if child.Fields[i].Relation {
			relation = &child.Fields[i]
		}
	}
	require.NotNil(t, relation)
	assert.Equal(t, "user", relation.Name)
	assert.Empty(t, relation.Source)
}

func TestSummarizeModels_EmptyModelHasFieldSlice(t *testing.T) {
	models := SummarizeModels(prisma.Infer("Empty", nil, nil))
	require.Len(t, models, 1)
	assert.NotNil(t, models[0].Fields)
	assert.Empty(t, models[0].Fields)
}

func TestToAny(t *testing.T) {
	v, err := ToAny(InferSummary{Records: 2, Models: 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"records": float64(2), "models": float64(1), "cached": false}, v)
}
