// Package scan computes column metadata by scanning table cells.
//
// A Scanner splits the rows of a Table into chunks and feeds each chunk to
// its own set of creators, one ManagerCreator per column. Chunks run
// concurrently; their creators are merged in chunk order afterwards, so the
// result is identical to a sequential scan, including the first-seen order
// of nominal values.
//
//	s := scan.NewScanner(reg, scan.WithChunkSize(4096))
//	res, err := s.Scan(ctx, table)
//	if err != nil {
//	    return err
//	}
//	col, _ := res.Column("color")
//	values, _ := metadata.Lookup[*nominal.ValueSet](col.Meta, nominal.Kind)
package scan
