package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anirudhraja/protocodec"
	"github.com/anirudhraja/protocodec/rawmsg"
	"github.com/anirudhraja/protocodec/wire"
)

const indentUnit = "  "

// printNodes writes nodes in the layout of protoc --decode_raw.
func printNodes(w io.Writer, nodes []rawmsg.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	for _, n := range nodes {
		if len(n.Children) > 0 {
			fmt.Fprintf(w, "%s%d {\n", indent, n.Number)
			printNodes(w, n.Children, depth+1)
			fmt.Fprintf(w, "%s}\n", indent)
			continue
		}
		fmt.Fprintf(w, "%s%d: %s\n", indent, n.Number, formatRaw(n.Field))
	}
}

func formatRaw(f rawmsg.Field) string {
	switch f.WireType {
	case wire.Varint:
		return strconv.FormatUint(f.Varint, 10)
	case wire.Bits32:
		return fmt.Sprintf("0x%08x", f.Fixed32)
	case wire.Bits64:
		return fmt.Sprintf("0x%016x", f.Fixed64)
	default:
		return strconv.Quote(string(f.Bytes))
	}
}

// printValues writes a typed inspection, one field per line. Unknown fields
// are labelled by number.
func printValues(w io.Writer, values []protocodec.Value, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	for _, v := range values {
		label := v.Name
		if v.Unknown || label == "" {
			label = strconv.FormatUint(v.Number, 10)
		}
		if v.Children != nil {
			fmt.Fprintf(w, "%s%s {\n", indent, label)
			printValues(w, v.Children, depth+1)
			fmt.Fprintf(w, "%s}\n", indent)
			continue
		}
		value := formatValue(v.Value)
		if name, ok := v.Value.(string); ok && v.WireType == wire.Varint {
			value = name // enum
		}
		fmt.Fprintf(w, "%s%s: %s\n", indent, label, value)
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []byte:
		return strconv.Quote(string(x))
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if name, ok := e.(string); ok {
				parts[i] = name // packed enum; strings are never packed
				continue
			}
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

type jsonNode struct {
	Number   uint64     `json:"number"`
	WireType string     `json:"wire_type"`
	Value    any        `json:"value,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

func toJSONNodes(nodes []rawmsg.Node) []jsonNode {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		jn := jsonNode{Number: n.Number, WireType: n.WireType.String()}
		if len(n.Children) > 0 {
			jn.Children = toJSONNodes(n.Children)
		} else {
			jn.Value = n.Value()
		}
		out = append(out, jn)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", indentUnit)
	return enc.Encode(v)
}
