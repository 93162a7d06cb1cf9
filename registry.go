package colmeta

import (
	"github.com/hupe1980/colmeta/metadata"
	"github.com/hupe1980/colmeta/metadata/nominal"
	"github.com/hupe1980/colmeta/metadata/probability"
)

// NewRegistry returns a registry with the built-in kinds registered:
// nominal value sets and probability distributions. The registry is not
// frozen, so callers may add their own kinds before use.
func NewRegistry(opts ...metadata.RegistryOption) *metadata.Registry {
	reg := metadata.NewRegistry(opts...)
	reg.MustRegister(nominal.Serializer, nominal.Factory{})
	reg.MustRegister(probability.Serializer, probability.Factory{})
	return reg
}
