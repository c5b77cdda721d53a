package tools

import (
	"github.com/usestring/prisma-infer/internal/cache"
	"github.com/usestring/prisma-infer/internal/config"
	"github.com/usestring/prisma-infer/internal/source"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config
	Cache  *cache.ResultCache
	Loader *source.Loader
}

// run is one inference request after decoding.
type run struct {
	Key    string
	Result *prisma.Result
	Cached bool
}

// Infer decodes the input records and infers the models, reusing a cached
// result for an identical request.
func (d *Deps) Infer(input InferInput) (*run, error) {
	if input.ModelName == "" {
		return nil, ErrInvalidInput("model_name is required")
	}
	if input.RecordsJSON == "" {
		return nil, ErrInvalidInput("records_json is required")
	}

	format, err := input.format()
	if err != nil {
		return nil, err
	}

	data := []byte(input.RecordsJSON)
	records, err := d.Loader.Decode(data, format, input.Select)
	if err != nil {
		return nil, WrapInferenceError(err)
	}

	opts := input.options(d.Config)
	key := cache.Fingerprint(input.ModelName, opts, input.Select, append([]byte(format+"\x00"), data...))

	if result, ok := d.Cache.Get(key); ok {
		return &run{Key: key, Result: result, Cached: true}, nil
	}

	result := prisma.Infer(input.ModelName, records, opts)
	d.Cache.Put(key, result)
	return &run{Key: key, Result: result}, nil
}
