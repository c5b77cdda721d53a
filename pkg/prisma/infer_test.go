package prisma

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecords(t *testing.T, data string) []Record {
	t.Helper()
	v, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	records, err := Records(v)
	require.NoError(t, err)
	return records
}

func TestGenerate_FlatModel(t *testing.T) {
	records := mustRecords(t, `[
		{"id": 1, "name": "Alice", "createdAt": "2024-01-01T00:00:00Z"},
		{"id": 2, "name": "Bob", "updatedAt": "2024-01-02T10:00:00Z"}
	]`)

	got := Generate("User", records, nil)

	want := `model User {
  id Int @id @default(autoincrement())
  name String
  createdAt DateTime? @default(now())
  updatedAt DateTime? @updatedAt
}`
	assert.Equal(t, want, got)
}

func TestGenerate_NormalizeArrays(t *testing.T) {
	records := mustRecords(t, `[
		{
			"id": "1",
			"name": "Project A",
			"tasks": [
				{"title": "Task 1", "completed": false},
				{"title": "Task 2", "completed": true}
			]
		}
	]`)

	got := Generate("Project", records, &Options{NormalizeArrays: true})

	want := `model Project {
  id String @id @default(uuid())
  name String
  tasks ProjectTasks[]
}

model ProjectTasks {
  id String @id @default(uuid())
  title String
  completed Boolean
  projectId String
  project Project @relation(fields: [projectId], references: [id])
}`
	assert.Equal(t, want, got)
}

func TestGenerate_SynthesizedID(t *testing.T) {
	records := mustRecords(t, `[{"name": "NoIdHere"}]`)

	got := Generate("NoIdModel", records, nil)

	assert.Equal(t, "model NoIdModel {\n  id String @id @default(uuid())\n  name String\n}", got)
}

func TestGenerate_EmptyRecords(t *testing.T) {
	got := Generate("Empty", nil, nil)

	assert.Equal(t, "model Empty {\n  id String @id @default(uuid())\n}", got)
}

func TestGenerate_MissingFieldIsOptional(t *testing.T) {
	records := mustRecords(t, `[{"score": 100}, {}]`)

	got := Generate("ScoredModel", records, nil)

	assert.Contains(t, got, "  score Int?\n")
}

func TestInfer_ScalarTypes(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"integer", `42`, "Int"},
		{"negative integer", `-7`, "Int"},
		{"whole float", `1.0`, "Int"},
		{"exponent integer", `1e3`, "Int"},
		{"float", `3.14`, "Float"},
		{"huge number", `1e400`, "Float"},
		{"boolean", `true`, "Boolean"},
		{"string", `"hello"`, "String"},
		{"date only", `"2024-01-01"`, "String"},
		{"date time", `"2024-01-01T10:20:30Z"`, "DateTime"},
		{"date time fraction", `"2024-01-01T10:20:30.123Z"`, "DateTime"},
		{"date time no zone", `"2024-01-01T10:20:30"`, "DateTime"},
		{"date time offset", `"2024-01-01T10:20:30+02:00"`, "String"},
		{"array of scalars", `[1, 2]`, "Json"},
		{"empty array", `[]`, "Json"},
		{"array of objects not normalized", `[{"a": 1}]`, "Json"},
		{"null", `null`, "Json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := mustRecords(t, `[{"value": `+tt.value+`}]`)

			result := Infer("Sample", records, nil)

			f, ok := result.Root.Field("value")
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Type.String())
		})
	}
}

func TestInfer_NullTypeDependsOnKey(t *testing.T) {
	records := mustRecords(t, `[{"parentId": null, "ID": null, "width": null, "meta": null}]`)

	result := Infer("Node", records, nil)

	tests := []struct {
		field string
		want  string
	}{
		{"parentId", "String"},
		{"ID", "String"},
		{"width", "String"}, // contains "id"
		{"meta", "Json"},
	}
	for _, tt := range tests {
		f, ok := result.Root.Field(tt.field)
		require.True(t, ok, tt.field)
		assert.Equal(t, tt.want, f.Type.String(), tt.field)
		assert.True(t, f.Optional, tt.field)
	}
}

func TestInfer_FirstOccurrenceFixesType(t *testing.T) {
	tests := []struct {
		name    string
		records string
		want    string
	}{
		{"int then float", `[{"v": 1}, {"v": 1.5}]`, "Int"},
		{"float then int", `[{"v": 1.5}, {"v": 2}]`, "Float"},
		{"string then object", `[{"v": "x"}, {"v": {"a": 1}}]`, "String"},
		{"null then int", `[{"v": null}, {"v": 3}]`, "Json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Infer("Sample", mustRecords(t, tt.records), nil)

			f, ok := result.Root.Field("v")
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Type.String())
			assert.Len(t, result.Models, 1, "no child model for a later shape")
		})
	}
}

func TestInfer_Optionality(t *testing.T) {
	records := mustRecords(t, `[
		{"always": 1, "sometimes": 1, "nullable": 1},
		{"always": 2, "nullable": null},
		{"always": 3, "sometimes": 2, "nullable": 3}
	]`)

	result := Infer("Sample", records, nil)

	always, _ := result.Root.Field("always")
	sometimes, _ := result.Root.Field("sometimes")
	nullable, _ := result.Root.Field("nullable")

	assert.False(t, always.Optional)
	assert.True(t, sometimes.Optional)
	assert.True(t, nullable.Optional)

	assert.Equal(t, 3, always.Present)
	assert.Equal(t, 2, sometimes.Present)
	assert.Equal(t, 3, nullable.Present)
	assert.Equal(t, 1, nullable.Nulls)
	assert.Equal(t, 0, always.Nulls)
}

func TestInfer_EveryKeyDeclaredOnce(t *testing.T) {
	records := mustRecords(t, `[
		{"a": 1, "b": "x"},
		{"b": "y", "c": true},
		{"c": false, "a": 2, "d": null}
	]`)

	got := Generate("Sample", records, nil)

	for _, key := range []string{"a", "b", "c", "d", "id"} {
		assert.Equal(t, 1, strings.Count(got, "\n  "+key+" "), key)
	}
	assert.True(t, strings.Index(got, "\n  a ") < strings.Index(got, "\n  b "))
	assert.True(t, strings.Index(got, "\n  b ") < strings.Index(got, "\n  c "))
	assert.True(t, strings.Index(got, "\n  c ") < strings.Index(got, "\n  d "))
}

func TestInfer_IDAnnotations(t *testing.T) {
	tests := []struct {
		name    string
		records string
		want    string
	}{
		{"string id", `[{"id": "a"}]`, "  id String @id @default(uuid())"},
		{"int id", `[{"id": 7}]`, "  id Int @id @default(autoincrement())"},
		{"float id", `[{"id": 7.5}]`, "  id Float"},
		{"optional int id", `[{"id": 1}, {}]`, "  id Int? @id @default(autoincrement())"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Infer("Thing", mustRecords(t, tt.records), nil)

			assert.False(t, result.Root.SyntheticID)
			f, ok := result.Root.Field("id")
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Line())
		})
	}
}

func TestInfer_SnakeCaseMapping(t *testing.T) {
	records := mustRecords(t, `[{"user_name": "a", "created_at": "2024-01-01T00:00:00Z"}]`)

	t.Run("source names kept", func(t *testing.T) {
		got := Generate("Account", records, nil)

		assert.Contains(t, got, "  user_name String @map(\"user_name\")\n")
		assert.Contains(t, got, "  created_at DateTime @map(\"created_at\")\n")
	})

	t.Run("camel case", func(t *testing.T) {
		got := Generate("Account", records, &Options{CamelCaseFields: true})

		assert.Contains(t, got, "  userName String @map(\"user_name\")\n")
		assert.Contains(t, got, "  createdAt DateTime @default(now()) @map(\"created_at\")\n")
	})

	t.Run("camel case collision keeps source name", func(t *testing.T) {
		got := Generate("Account", mustRecords(t, `[{"userName": "a", "user_name": "b"}]`), &Options{CamelCaseFields: true})

		assert.Contains(t, got, "  userName String\n")
		assert.Contains(t, got, "  user_name String @map(\"user_name\")\n")
	})
}

func TestInfer_NestedObject(t *testing.T) {
	records := mustRecords(t, `[{"id": 1, "profile": {"bio": "x"}}]`)

	got := Generate("User", records, nil)

	want := `model User {
  id Int @id @default(autoincrement())
  profile UserProfile
}

model UserProfile {
  id String @id @default(uuid())
  bio String
  userId String
  user User @relation(fields: [userId], references: [id])
}`
	assert.Equal(t, want, got)
}

func TestInfer_DepthLimit(t *testing.T) {
	records := mustRecords(t, `[{"a": {"b": {"c": {"d": {"e": 1}}}}}]`)

	t.Run("default depth", func(t *testing.T) {
		result := Infer("L", records, nil)

		var names []string
		for _, m := range result.Models {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"L", "LA", "LAB", "LABC"}, names)

		deepest := result.Models[3]
		d, ok := deepest.Field("d")
		require.True(t, ok)
		assert.Equal(t, "Json", d.Type.String())
	})

	t.Run("max depth 1", func(t *testing.T) {
		result := Infer("L", records, &Options{MaxDepth: 1})

		assert.Len(t, result.Models, 1)
		a, _ := result.Root.Field("a")
		assert.Equal(t, "Json", a.Type.String())
	})

	t.Run("arrays are not depth limited", func(t *testing.T) {
		result := Infer("L", mustRecords(t, `[{"items": [{"x": 1}]}]`), &Options{NormalizeArrays: true, MaxDepth: 1})

		require.Len(t, result.Models, 2)
		assert.Equal(t, "LItems", result.Models[1].Name)
	})
}

func TestInfer_RegistryPreventsDuplicates(t *testing.T) {
	records := mustRecords(t, `[
		{"tasks": [{"title": "a"}], "owner": {"name": "x"}},
		{"tasks": [{"title": "b", "done": true}], "owner": {"name": "y", "email": "e"}}
	]`)

	got := Generate("Project", records, &Options{NormalizeArrays: true})

	assert.Equal(t, 1, strings.Count(got, "model ProjectTasks {"))
	assert.Equal(t, 1, strings.Count(got, "model ProjectOwner {"))
	// Only the first occurrence defines the child.
	assert.NotContains(t, got, "done")
	assert.NotContains(t, got, "email")
}

func TestInferModel_SharedRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Add("ProjectTasks")

	records := mustRecords(t, `[{"tasks": [{"title": "a"}]}]`)
	m := InferModel("Project", records, &Options{NormalizeArrays: true}, registry, 1, nil)

	assert.Empty(t, m.Children)
	tasks, ok := m.Field("tasks")
	require.True(t, ok)
	assert.Equal(t, "ProjectTasks[]", tasks.Type.String())
}

func TestInferModel_RegistersChildren(t *testing.T) {
	registry := NewRegistry()
	records := mustRecords(t, `[{"a": {"b": {"c": 1}}, "list": [{"x": 1}]}]`)

	InferModel("Root", records, &Options{NormalizeArrays: true}, registry, 1, nil)

	assert.True(t, registry.Has("RootA"))
	assert.True(t, registry.Has("RootAB"))
	assert.True(t, registry.Has("RootList"))
	assert.Equal(t, 3, registry.Len())
}

func TestInfer_ChildOrderIsDepthFirst(t *testing.T) {
	records := mustRecords(t, `[{"a": {"x": {"k": 1}}, "b": {"k": 2}}]`)

	result := Infer("Root", records, nil)

	var names []string
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Root", "RootA", "RootAX", "RootB"}, names)
}

func TestInfer_DoesNotMutateInput(t *testing.T) {
	records := mustRecords(t, `[{"tasks": [{"title": "a"}], "owner": {"name": "x"}}]`)

	Infer("Project", records, &Options{NormalizeArrays: true})

	tasks, _ := records[0].Get("tasks")
	task := tasks.(Array)[0].(*Object)
	assert.False(t, task.Has("projectId"))

	owner, _ := records[0].Get("owner")
	assert.False(t, owner.(*Object).Has("projectId"))
}

func TestInfer_ForeignKeyOverridesSampleValue(t *testing.T) {
	records := mustRecords(t, `[{"tasks": [{"projectId": null, "project": "p", "title": "a"}, 5]}]`)

	result := Infer("Project", records, &Options{NormalizeArrays: true})
	require.Len(t, result.Models, 2)
	child := result.Models[1]

	want := `model ProjectTasks {
  id String @id @default(uuid())
  projectId String
  project Project @relation(fields: [projectId], references: [id])
  title String
}`
	assert.Equal(t, want, child.Declaration())
}

func TestInfer_ArrayNormalizationRequiresObjectFirst(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"object first", `[{"a": 1}, 2]`, "SampleValue[]"},
		{"scalar first", `[2, {"a": 1}]`, "Json"},
		{"nested array first", `[[{"a": 1}]]`, "Json"},
		{"null first", `[null, {"a": 1}]`, "Json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := mustRecords(t, `[{"value": `+tt.value+`}]`)

			result := Infer("Sample", records, &Options{NormalizeArrays: true})

			f, ok := result.Root.Field("value")
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Type.String())
		})
	}
}

func TestInfer_OptionalRelationField(t *testing.T) {
	records := mustRecords(t, `[{"tags": [{"name": "a"}]}, {"tags": null}, {}]`)

	result := Infer("Post", records, &Options{NormalizeArrays: true})

	tags, ok := result.Root.Field("tags")
	require.True(t, ok)
	assert.Equal(t, "  tags PostTags[]?", tags.Line())
}

func TestInfer_SelfSimilarShapesTerminate(t *testing.T) {
	records := mustRecords(t, `[{"node": {"node": {"node": {"node": {"node": {"node": {}}}}}}}]`)

	result := Infer("Tree", records, &Options{MaxDepth: 10})

	assert.Len(t, result.Models, 7)
	assert.Equal(t, 7, strings.Count(result.String(), "model "))
}

func TestInfer_EmptyKeyIsSkipped(t *testing.T) {
	records := mustRecords(t, `[{"": {"a": 1}, "name": "p", "x": {"": 2, "b": true}}, {"": 3}]`)

	result := Infer("Project", records, nil)

	want := `model Project {
  id String @id @default(uuid())
  name String?
  x ProjectX?
}

model ProjectX {
  id String @id @default(uuid())
  b Boolean
  projectId String
  project Project @relation(fields: [projectId], references: [id])
}`
	assert.Equal(t, want, result.String())
	require.Len(t, result.Models, 2)
}
