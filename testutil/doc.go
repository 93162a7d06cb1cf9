// Package testutil provides testing utilities for colmeta.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source and generators for tables with
// skewed nominal columns, distribution columns and missing cells.
//
// # Random Tables
//
//	rng := testutil.NewRNG(seed)
//	tbl := rng.Table(10000, testutil.TableSpec{
//	    Nominal:      2,
//	    Cardinality:  50,
//	    MissingRate:  0.1,
//	})
package testutil
