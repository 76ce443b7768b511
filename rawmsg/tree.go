package rawmsg

import "github.com/anirudhraja/protocodec/wire"

// Config controls how far Tree goes when guessing at nested messages.
type Config struct {
	// MaxDepth is the number of levels of length-delimited payloads Tree
	// tries to expand. 0 leaves every payload as bytes.
	MaxDepth int
}

// DefaultConfig is used by callers that have no preference.
var DefaultConfig = Config{MaxDepth: 8}

// Node is a Field plus, for length-delimited payloads that themselves scan
// as a message, the fields of that message.
type Node struct {
	Field
	Children []Node
}

// Tree scans buf and recursively expands length-delimited payloads that
// parse cleanly as messages. A payload that does not parse is not an error:
// it is reported as bytes, since strings and packed fields share the wire
// type.
func Tree(buf []byte, cfg Config) ([]Node, error) {
	fields, err := Scan(buf)
	if err != nil {
		return nil, err
	}
	return expand(fields, cfg, 1), nil
}

func expand(fields []Field, cfg Config, depth int) []Node {
	nodes := make([]Node, len(fields))
	for i, f := range fields {
		nodes[i].Field = f
		if f.WireType != wire.LengthDelimited || len(f.Bytes) == 0 || depth > cfg.MaxDepth {
			continue
		}
		children, err := Scan(f.Bytes)
		if err != nil {
			continue
		}
		nodes[i].Children = expand(children, cfg, depth+1)
	}
	return nodes
}
