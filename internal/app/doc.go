// Package app contains the build pipeline. It ties the program tree, the
// platform definition, code generation, template assembly and the host
// toolchain together, decoupled from any specific entrypoint like a CLI.
package app
