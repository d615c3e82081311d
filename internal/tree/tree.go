// Package tree loads the program tree that the language front-end
// serializes into the build directory.
package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the tree artifact's name inside the build directory.
const FileName = "tree.json"

var (
	// ErrArtifactMissing is returned when the build directory has no tree.
	ErrArtifactMissing = errors.New("program tree artifact missing")
	// ErrArtifactMalformed is returned when the tree can not be decoded.
	ErrArtifactMalformed = errors.New("program tree artifact malformed")
)

// Tree is a loaded program tree. The raw bytes are kept so adapters receive
// exactly what the front-end wrote.
type Tree struct {
	Path  string
	Nodes []Node
	raw   []byte
}

// Node is one top-level entry of the tree. Exactly one field is normally
// set; Extra keeps keys this package does not know about.
type Node struct {
	Platform    string            `json:"platform,omitempty"`
	Stream      []json.RawMessage `json:"stream,omitempty"`
	Block       *Block            `json:"block,omitempty"`
	BlockBundle *Block            `json:"blockbundle,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Block is a declared block or block bundle.
type Block struct {
	Name  string         `json:"name"`
	Type  string         `json:"type"`
	Size  int            `json:"size,omitempty"`
	Ports map[string]any `json:"ports,omitempty"`
}

var knownKeys = map[string]struct{}{
	"platform": {}, "stream": {}, "block": {}, "blockbundle": {},
}

// UnmarshalJSON decodes a node and retains unknown keys.
func (n *Node) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("node must be a JSON object, got null")
	}
	type plain Node
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, v := range all {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	*n = Node(p)
	return nil
}

// MarshalJSON encodes a node together with its unknown keys.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	data, err := json.Marshal(plain(n))
	if err != nil || len(n.Extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range n.Extra {
		all[k] = v
	}
	return json.Marshal(all)
}

// Load reads and decodes the tree artifact in dir.
func Load(dir string) (*Tree, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var nodes []Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactMalformed, path, err)
	}
	if nodes == nil {
		return nil, fmt.Errorf("%w: %s: expected a JSON array of nodes", ErrArtifactMalformed, path)
	}

	return &Tree{Path: path, Nodes: nodes, raw: data}, nil
}

// Raw returns the artifact exactly as it was read.
func (t *Tree) Raw() []byte {
	out := make([]byte, len(t.raw))
	copy(out, t.raw)
	return out
}

// Platform returns the platform named by the first platform node, or "".
func (t *Tree) Platform() string {
	for _, n := range t.Nodes {
		if n.Platform != "" {
			return n.Platform
		}
	}
	return ""
}

// Blocks returns every block and block bundle declaration in order.
func (t *Tree) Blocks() []*Block {
	var blocks []*Block
	for _, n := range t.Nodes {
		if n.Block != nil {
			blocks = append(blocks, n.Block)
		}
		if n.BlockBundle != nil {
			blocks = append(blocks, n.BlockBundle)
		}
	}
	return blocks
}

// Save writes nodes to dir in the front-end's layout.
func Save(dir string, nodes []Node) error {
	if nodes == nil {
		nodes = []Node{}
	}
	data, err := json.MarshalIndent(nodes, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode program tree: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
