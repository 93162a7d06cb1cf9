// Package settings provides the ordered key-value configuration tree that
// column metadata is persisted through.
//
// A Tree holds typed entries (string, int, float, bool, string arrays, float
// arrays) and nested trees. Keys keep their insertion order, which makes the
// persisted form stable and human-diffable.
//
// Readers and writers only see the narrow interfaces:
//
//	var w settings.Writer = settings.New()
//	w.SetStrings("values", []string{"a", "b"})
//	scope := w.AddTree("nominal.ValueSet")
//	scope.SetInt("version", 1)
//
// Typed getters fail with an error satisfying
// errors.Is(err, settings.ErrInvalidSettings) when the key is missing or the
// stored entry has a different type:
//
//	vals, err := r.Strings("values")
//	if errors.Is(err, settings.ErrInvalidSettings) {
//	    // malformed or missing
//	}
//
// # Encodings
//
// Trees implement encoding.BinaryMarshaler (compact uvarint format),
// json.Marshaler and yaml.Marshaler. All encodings preserve key order and
// entry types.
package settings
