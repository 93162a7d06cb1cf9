// Package metadata attaches typed, mergeable side information to table
// columns.
//
// # Concepts
//
//   - Kind: stable identifier of a metadata family, e.g. "nominal.ValueSet".
//   - MetaData: an immutable instance of one kind.
//   - Creator: a mutable builder for one kind, fed raw cells or finalized
//     instances, producing independent MetaData snapshots.
//   - Serializer: per-kind codec between MetaData and a settings tree.
//   - Registry: the catalog of known kinds with their serializer and creator
//     factory.
//   - Manager: the immutable per-column container holding at most one
//     MetaData per kind.
//   - ManagerCreator: the mutable builder for a Manager, holding one open
//     Creator per kind.
//
// # Lifecycle
//
// Register kinds once at startup, then freeze the registry:
//
//	reg := metadata.NewRegistry()
//	nominal.Register(reg)
//	reg.Freeze()
//
// Build a Manager by scanning a column:
//
//	mc := reg.NewManagerCreator(value.StringType.Capabilities()...)
//	for _, cell := range column {
//	    mc.Update(cell)
//	}
//	m := mc.Create()
//
// Look up a kind with a checked type:
//
//	vs, ok := metadata.Lookup[*nominal.ValueSet](m, nominal.Kind)
//
// # Persistence
//
// Manager.Save writes one nested tree per kind, keyed by the kind identifier:
//
//	<manager>
//	  nominal.ValueSet { values: [...] }
//	  probability.Distribution { classes: [...] }
//
// Load resolves each key through the registry. Entries for kinds that are
// not registered (for example written by an extension that is no longer
// installed) and entries with malformed settings are skipped and reported in
// the LoadReport, so the remaining metadata still loads.
//
// # Concurrency
//
// Managers are immutable and safe to share. Creators and ManagerCreators are
// single-writer. The Registry takes a mutex during registration; lookups read
// an immutable snapshot without locking.
package metadata
