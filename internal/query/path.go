package query

import "github.com/usestring/prisma-infer/pkg/prisma"

// lookup follows a jq path (as produced by path(f)) through v. Missing keys
// and out-of-range indices resolve to null, the same as in jq.
func lookup(v prisma.Value, steps []any) prisma.Value {
	for _, step := range steps {
		switch s := step.(type) {
		case string:
			obj, ok := v.(*prisma.Object)
			if !ok {
				return prisma.Null{}
			}
			next, ok := obj.Get(s)
			if !ok {
				return prisma.Null{}
			}
			v = next

		case int, float64:
			arr, ok := v.(prisma.Array)
			if !ok {
				return prisma.Null{}
			}
			i := toInt(s)
			if i < 0 {
				i += len(arr)
			}
			if i < 0 || i >= len(arr) {
				return prisma.Null{}
			}
			v = arr[i]

		case map[string]any:
			arr, ok := v.(prisma.Array)
			if !ok {
				return prisma.Null{}
			}
			start, end := bound(s["start"], 0, len(arr)), bound(s["end"], len(arr), len(arr))
			if start > end {
				start = end
			}
			v = arr[start:end]

		default:
			return prisma.Null{}
		}
	}
	return v
}

// bound resolves one end of a slice step, clamped to [0, n].
func bound(x any, def, n int) int {
	if x == nil {
		return def
	}
	i := toInt(x)
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}

func toInt(x any) int {
	switch n := x.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
