// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pattern serializes render nodes into compact tagged records that
// a single generic shader can interpret.
//
// Encoding is an optimization: CreateForNode reports false for every node
// kind without an encoder and the caller then emits the node the usual
// way.
package pattern

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gsk/geom"
	"github.com/gogpu/gsk/internal/ops"
	"github.com/gogpu/gsk/node"
)

// Tag identifies the record type at the start of an encoded pattern.
type Tag uint32

const (
	TagColor Tag = 1 + iota
)

var tagNames = map[Tag]string{
	TagColor: "color",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "unknown"
}

// Errors returned by Decode.
var (
	ErrShortRecord = errors.New("pattern: record too short")
	ErrUnknownTag  = errors.New("pattern: unknown tag")
)

type encodeFunc func(w *ops.BufferWriter, n node.Node) bool

var encoders [node.NumKinds]encodeFunc

func init() {
	encoders[node.KindColor] = encodeColor
}

// CreateForNode appends the pattern record for n to the current span of w.
// It reports false and leaves w untouched if n has no encoder. The caller
// commits or aborts the span.
func CreateForNode(w *ops.BufferWriter, n node.Node) bool {
	k := n.Kind()
	if int(k) >= len(encoders) || encoders[k] == nil {
		return false
	}
	return encoders[k](w, n)
}

// CanEncode reports whether n has an encoder.
func CanEncode(n node.Node) bool {
	k := n.Kind()
	return int(k) < len(encoders) && encoders[k] != nil
}

func encodeColor(w *ops.BufferWriter, n node.Node) bool {
	c := n.(*node.Color).Color()
	w.AppendUint(uint32(TagColor))
	w.AppendFloat(c.R)
	w.AppendFloat(c.G)
	w.AppendFloat(c.B)
	w.AppendFloat(c.A)
	return true
}

// Record is a decoded pattern.
type Record struct {
	Tag   Tag
	Color geom.Color
}

// Decode reads the record at the start of data.
func Decode(data []byte) (Record, error) {
	if len(data) < 4 {
		return Record{}, ErrShortRecord
	}
	tag := Tag(binary.LittleEndian.Uint32(data))
	switch tag {
	case TagColor:
		if len(data) < 20 {
			return Record{}, fmt.Errorf("%w: color needs 20 bytes, have %d", ErrShortRecord, len(data))
		}
		f := func(i int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
		}
		return Record{Tag: tag, Color: geom.RGBA(f(0), f(1), f(2), f(3))}, nil
	}
	return Record{}, fmt.Errorf("%w: %d", ErrUnknownTag, tag)
}
