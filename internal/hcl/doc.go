// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for finding and parsing platform definition
// files, decoding them into the format-agnostic config.Platform model, and
// converting loosely typed runtime values with go-cty.
package hcl
