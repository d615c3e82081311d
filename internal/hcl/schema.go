package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any
// platform definition file.
type fileRoot struct {
	Platform   *platformBlock    `hcl:"platform,block"`
	Runtime    *runtimeBlock     `hcl:"runtime,block"`
	Generator  *commandBlock     `hcl:"generator,block"`
	Formatter  *commandBlock     `hcl:"formatter,block"`
	Toolchains []*toolchainBlock `hcl:"toolchain,block"`
}

// platformBlock names the platform the definition belongs to.
type platformBlock struct {
	Name    string `hcl:"name,label"`
	Version string `hcl:"version,optional"`
}

// runtimeBlock holds the runtime values as raw attributes. They are
// converted individually so numbers written as strings still decode.
type runtimeBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// commandBlock describes an external program, e.g. the code generator or
// the source formatter.
type commandBlock struct {
	Command []string `hcl:"command,optional"`
	Enabled *bool    `hcl:"enabled,optional"`
}

// toolchainBlock overrides the compiler setup of one host.
type toolchainBlock struct {
	Host     string   `hcl:"host,label"`
	Compiler string   `hcl:"compiler,optional"`
	Defines  []string `hcl:"defines,optional"`
}
