// Package hcl_adapter implements the config.Loader and config.ManifestLoader
// interfaces for HCL. It parses recipe files and cached package manifests,
// decodes them with gohcl into HCL-specific schema structs, and translates
// those into the format-agnostic config model.
package hcl_adapter
