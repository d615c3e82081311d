// Package config defines the format-agnostic platform definition model,
// along with the Loader interface for reading it from disk.
//
// The `config.Platform` value is built once per build and passed by value
// through the assembler and build driver. Concrete loaders, such as the HCL
// one, live in separate packages.
package config
