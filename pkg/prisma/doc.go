// Package prisma infers Prisma model declarations from sample records.
//
// Given a model name and a set of loosely-typed records, Infer decides a type
// for every observed key, marks keys that are missing or null in some record
// as optional, and factors nested objects (and, with NormalizeArrays, arrays
// of objects) out into child models linked back by a synthesized foreign key.
//
// # Basic Usage
//
//	v, err := prisma.ParseJSON(data)
//	if err != nil {
//	    return err
//	}
//	records, err := prisma.Records(v)
//	if err != nil {
//	    return err // prisma.ErrNotArray
//	}
//	fmt.Println(prisma.Generate("User", records, &prisma.Options{NormalizeArrays: true}))
//
// # Type Rules
//
// Strings matching YYYY-MM-DDTHH:MM:SS[.fraction][Z] become DateTime, other
// strings String. Whole numbers are Int, other numbers Float. Null values are
// String when the key contains "id" (case-insensitive) and Json otherwise.
// Arrays that are not normalized, and nested objects at or beyond MaxDepth,
// become Json. The first occurrence of a key fixes its type.
//
// Inference never fails: shapes it cannot classify become Json. The only
// error surfaced to callers is ErrNotArray from Records.
package prisma
