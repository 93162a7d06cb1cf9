// Package fs is the file-system seam under blobstore.LocalStore.
//
// Default is the os-backed LocalFS. FaultyFS wraps another FileSystem and
// fails writes, syncs, closes, renames or reads for paths containing a
// pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("iris.cmd", fs.Fault{FailOnRename: true, FailAfterBytes: -1})
package fs
