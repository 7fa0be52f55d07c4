package tree

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rezi"
)

// This file contains the binary encoding of Packets for wire layers.

// MarshalBinary encodes the bound into bytes.
func (b Bound) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncBool(b.Valid)...)
	data = append(data, rezi.EncInt(int(b.Int))...)
	data = append(data, rezi.EncString(strconv.FormatFloat(b.Float, 'g', -1, 64))...)
	return data, nil
}

// UnmarshalBinary decodes a bound previously encoded with MarshalBinary.
func (b *Bound) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	b.Valid, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("valid: %w", err)
	}
	data = data[n:]

	var i int
	i, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("int: %w", err)
	}
	b.Int = int64(i)
	data = data[n:]

	var fStr string
	fStr, _, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("float: %w", err)
	}
	b.Float, err = strconv.ParseFloat(fStr, 64)
	if err != nil {
		return fmt.Errorf("float: %w", err)
	}

	return nil
}

// MarshalBinary encodes the parser into bytes.
func (p Parser) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(int(p.Kind))...)
	data = append(data, rezi.EncBinary(p.Min)...)
	data = append(data, rezi.EncBinary(p.Max)...)
	data = append(data, rezi.EncString(p.Tag)...)
	return data, nil
}

// UnmarshalBinary decodes a parser previously encoded with MarshalBinary.
func (p *Parser) UnmarshalBinary(data []byte) error {
	kind, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	p.Kind = ParserKind(kind)
	data = data[n:]

	n, err = rezi.DecBinary(data, &p.Min)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	data = data[n:]

	n, err = rezi.DecBinary(data, &p.Max)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}
	data = data[n:]

	p.Tag, _, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("tag: %w", err)
	}

	return nil
}

// MarshalBinary encodes the node into bytes.
func (pn PacketNode) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(int(pn.Kind))...)
	data = append(data, rezi.EncString(pn.Name)...)
	data = append(data, rezi.EncBool(pn.Parser != nil)...)
	if pn.Parser != nil {
		data = append(data, rezi.EncBinary(*pn.Parser)...)
	}
	data = append(data, rezi.EncBool(pn.Executable)...)
	data = append(data, rezi.EncInt(pn.Parent)...)
	data = append(data, rezi.EncInt(len(pn.Children))...)
	for _, c := range pn.Children {
		data = append(data, rezi.EncInt(c)...)
	}
	return data, nil
}

// UnmarshalBinary decodes a node previously encoded with MarshalBinary.
func (pn *PacketNode) UnmarshalBinary(data []byte) error {
	kind, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	pn.Kind = NodeKind(kind)
	data = data[n:]

	pn.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	hasParser, n, err := rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("parser flag: %w", err)
	}
	data = data[n:]

	pn.Parser = nil
	if hasParser {
		p := &Parser{}
		n, err = rezi.DecBinary(data, p)
		if err != nil {
			return fmt.Errorf("parser: %w", err)
		}
		pn.Parser = p
		data = data[n:]
	}

	pn.Executable, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("executable: %w", err)
	}
	data = data[n:]

	pn.Parent, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("parent: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("child count: %w", err)
	}
	data = data[n:]

	pn.Children = make([]int, count)
	for i := 0; i < count; i++ {
		pn.Children[i], n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
		data = data[n:]
	}

	return nil
}

// MarshalBinary encodes the packet into bytes.
func (pkt Packet) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(pkt.Root)...)
	data = append(data, rezi.EncInt(len(pkt.Nodes))...)
	for _, n := range pkt.Nodes {
		data = append(data, rezi.EncBinary(n)...)
	}
	return data, nil
}

// UnmarshalBinary decodes a packet previously encoded with MarshalBinary.
func (pkt *Packet) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	pkt.Root, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("node count: %w", err)
	}
	data = data[n:]

	pkt.Nodes = make([]PacketNode, count)
	for i := 0; i < count; i++ {
		n, err = rezi.DecBinary(data, &pkt.Nodes[i])
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		data = data[n:]
	}

	return nil
}
