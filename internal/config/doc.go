// Package config defines the format-agnostic recipe model for the
// application, along with the core interfaces (Loader, ManifestLoader) for
// loading recipes and package manifests from various sources.
//
// The `config.Recipe` is the single source of truth for the resolver,
// generator, staging and patch stages. It is built once per configuration
// run and never mutated afterwards. Concrete implementations of the
// interfaces, such as for HCL, are provided in separate packages.
package config
