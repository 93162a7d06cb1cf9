// Package colmeta collects, merges and persists column metadata of tables.
//
// Column metadata describes the values a column holds: the distinct values of
// a nominal column, or the classes of a probability distribution column.
// Each kind of metadata is a plugin registered in a metadata.Registry, which
// knows how to create, merge and serialize it.
//
// # Quick Start
//
//	ctx := context.Background()
//	cat, _ := colmeta.Open(ctx, colmeta.Local("./meta"))
//	defer cat.Close()
//
//	tbl := scan.NewMemTable(
//	    scan.Column{Name: "color", Type: value.StringType},
//	    scan.Column{Name: "size", Type: value.DoubleType},
//	)
//	_ = tbl.Append(value.String("red"), value.Float(1.5))
//
//	meta, _ := cat.Scan(ctx, "shapes", tbl)
//	colors, _ := meta.Column("color")
//	set, _ := metadata.Lookup[*nominal.ValueSet](colors, nominal.Kind)
//	fmt.Println(set.Values()) // [red]
//
// Appending a further table merges its metadata into the stored one:
//
//	meta, _ = cat.Append(ctx, "shapes", more)
//
// # Backends
//
// Documents are stored in a blobstore.BlobStore:
//
//	colmeta.Local(dir)              // files below dir
//	colmeta.InMemory()              // process memory
//	colmeta.Remote(store)           // e.g. s3.New or minio.NewStore
//
// WithCache and WithRateLimit wrap any backend.
//
// # Document Format
//
// Each table is one blob, "tables/<name>.cmd", holding a small binary header
// (magic, version, compression, codec name, CRC32, length) followed by the
// encoded settings tree. The codec and compression are recorded per
// document, so documents written with different options stay readable.
//
// Kinds that are not registered when a document is loaded are skipped with a
// warning; LoadWithReport lists them.
package colmeta
