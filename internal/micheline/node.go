// Package micheline models Tezos Micheline expressions as delivered by
// node RPC JSON: primitive applications, literals, and sequences.
package micheline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Node is one Micheline expression. Exactly one of the literal fields,
// Prim, or Seq is populated; IsSeq distinguishes an empty sequence from
// a zero-value node.
type Node struct {
	Prim   string
	Args   []Node
	Annots []string
	Int    *string
	String *string
	Bytes  *string
	Seq    []Node
	IsSeq  bool
}

type nodeJSON struct {
	Prim   string   `json:"prim,omitempty"`
	Args   []Node   `json:"args,omitempty"`
	Annots []string `json:"annots,omitempty"`
	Int    *string  `json:"int,omitempty"`
	String *string  `json:"string,omitempty"`
	Bytes  *string  `json:"bytes,omitempty"`
}

// UnmarshalJSON decodes either a sequence or a single expression object.
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty micheline expression")
	}
	if trimmed[0] == '[' {
		var seq []Node
		if err := json.Unmarshal(trimmed, &seq); err != nil {
			return fmt.Errorf("micheline sequence: %w", err)
		}
		*n = Node{Seq: seq, IsSeq: true}
		return nil
	}
	var obj nodeJSON
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("micheline expression: %w", err)
	}
	*n = Node{
		Prim:   obj.Prim,
		Args:   obj.Args,
		Annots: obj.Annots,
		Int:    obj.Int,
		String: obj.String,
		Bytes:  obj.Bytes,
	}
	return nil
}

// MarshalJSON encodes the node back into node-RPC JSON.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsSeq {
		if n.Seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(n.Seq)
	}
	return json.Marshal(nodeJSON{
		Prim:   n.Prim,
		Args:   n.Args,
		Annots: n.Annots,
		Int:    n.Int,
		String: n.String,
		Bytes:  n.Bytes,
	})
}

// Pair builds a Pair primitive node.
func Pair(args ...Node) Node {
	return Node{Prim: "Pair", Args: args}
}

// Str builds a string literal node.
func Str(value string) Node {
	return Node{String: &value}
}

// Num builds an int literal node from a big integer.
func Num(value *big.Int) Node {
	text := value.String()
	return Node{Int: &text}
}

// Seq builds a sequence node.
func Seq(items ...Node) Node {
	if items == nil {
		items = []Node{}
	}
	return Node{Seq: items, IsSeq: true}
}

// IsPair reports whether the node is a Pair application with at least
// two arguments.
func (n Node) IsPair() bool {
	return n.Prim == "Pair" && len(n.Args) >= 2
}

// BigInt returns the node's int literal value.
func (n Node) BigInt() (*big.Int, bool) {
	if n.Int == nil {
		return nil, false
	}
	value, ok := new(big.Int).SetString(*n.Int, 10)
	if !ok {
		return nil, false
	}
	return value, true
}

// Address returns the node's string literal, the form addresses take in
// normalized node RPC output.
func (n Node) Address() (string, bool) {
	if n.String == nil || *n.String == "" {
		return "", false
	}
	return *n.String, true
}

// At walks Pair arguments by index, supporting right-combed pairs:
// each step indexes into Args of the current node.
func (n Node) At(path ...int) (Node, bool) {
	current := n
	for _, idx := range path {
		if idx < 0 || idx >= len(current.Args) {
			return Node{}, false
		}
		current = current.Args[idx]
	}
	return current, true
}

// Items returns the sequence elements.
func (n Node) Items() ([]Node, bool) {
	if !n.IsSeq {
		return nil, false
	}
	return n.Seq, true
}
