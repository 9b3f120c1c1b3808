// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ops

import (
	"github.com/gogpu/gsk/geom"
)

// ImageID identifies an image referenced by ops of a Stream.
type ImageID int32

// NoImage is the invalid image id.
const NoImage ImageID = -1

// ImageKind says where an image comes from.
type ImageKind uint8

const (
	// ImageTarget is supplied by the caller and rendered into.
	ImageTarget ImageKind = iota
	// ImageOffscreen is created by the frame for intermediate results.
	ImageOffscreen
	// ImageUpload is filled by an UploadOp.
	ImageUpload
)

func (k ImageKind) String() string {
	switch k {
	case ImageTarget:
		return "target"
	case ImageOffscreen:
		return "offscreen"
	case ImageUpload:
		return "upload"
	}
	return "unknown"
}

// Image describes an image used by the stream. Backends allocate the
// actual storage when they execute the stream.
type Image struct {
	Kind       ImageKind
	Width      int
	Height     int
	ColorState geom.ColorState
	Label      string
}

// Stream is an append-only list of ops for one frame.
//
// Ops are addressed by OpID. The zero value is ready to use. A Stream is
// not safe for concurrent use.
type Stream struct {
	ops    []Op
	next   []OpID
	first  OpID
	last   OpID
	images []Image

	globals   Slab[GlobalsOp]
	scissors  Slab[ScissorOp]
	blends    Slab[BlendOp]
	clears    Slab[ClearOp]
	begins    Slab[BeginPassOp]
	ends      Slab[EndPassOp]
	colors    Slab[ColorOp]
	rounded   Slab[RoundedColorOp]
	textures  Slab[TextureOp]
	converts  Slab[ConvertOp]
	uploads   Slab[UploadOp]
	masks     Slab[MaskOp]
	patterns  Slab[PatternOp]
	initiated bool
}

// NewStream returns an empty stream.
func NewStream() *Stream {
	s := &Stream{}
	s.init()
	return s
}

func (s *Stream) init() {
	if !s.initiated {
		s.first, s.last = NoOp, NoOp
		s.initiated = true
	}
}

func (s *Stream) push(op Op) OpID {
	s.init()
	id := OpID(len(s.ops))
	s.ops = append(s.ops, op)
	s.next = append(s.next, NoOp)
	if s.last == NoOp {
		s.first = id
	} else {
		s.next[s.last] = id
	}
	s.last = id
	return id
}

// Len returns the number of ops.
func (s *Stream) Len() int {
	return len(s.ops)
}

// First returns the first op in submission order, or NoOp.
func (s *Stream) First() OpID {
	s.init()
	return s.first
}

// Next returns the op following id, or NoOp.
func (s *Stream) Next(id OpID) OpID {
	return s.next[id]
}

// Op returns the op with the given id.
func (s *Stream) Op(id OpID) Op {
	return s.ops[id]
}

// Ops returns the ops in submission order.
func (s *Stream) Ops() []Op {
	out := make([]Op, 0, len(s.ops))
	for id := s.First(); id != NoOp; id = s.next[id] {
		out = append(out, s.ops[id])
	}
	return out
}

// Count returns the number of ops of kind k.
func (s *Stream) Count(k Kind) int {
	n := 0
	for _, op := range s.ops {
		if op.Kind() == k {
			n++
		}
	}
	return n
}

// AddImage registers an image and returns its id.
func (s *Stream) AddImage(img Image) ImageID {
	s.images = append(s.images, img)
	return ImageID(len(s.images) - 1)
}

// Image returns the description of id.
func (s *Stream) Image(id ImageID) Image {
	return s.images[id]
}

// NumImages returns the number of registered images.
func (s *Stream) NumImages() int {
	return len(s.images)
}

// Reset finishes every op and empties the stream. Registered images are
// forgotten as well.
func (s *Stream) Reset() {
	for _, op := range s.ops {
		op.Finish()
	}
	s.ops = s.ops[:0]
	s.next = s.next[:0]
	s.first, s.last = NoOp, NoOp
	s.initiated = true
	s.images = s.images[:0]

	s.globals.Reset()
	s.scissors.Reset()
	s.blends.Reset()
	s.clears.Reset()
	s.begins.Reset()
	s.ends.Reset()
	s.colors.Reset()
	s.rounded.Reset()
	s.textures.Reset()
	s.converts.Reset()
	s.uploads.Reset()
	s.masks.Reset()
	s.patterns.Reset()
}

func (s *Stream) Globals(op GlobalsOp) OpID {
	p := s.globals.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Scissor(op ScissorOp) OpID {
	p := s.scissors.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Blend(op BlendOp) OpID {
	p := s.blends.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Clear(op ClearOp) OpID {
	p := s.clears.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) BeginPass(op BeginPassOp) OpID {
	p := s.begins.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) EndPass(op EndPassOp) OpID {
	p := s.ends.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Color(op ColorOp) OpID {
	p := s.colors.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) RoundedColor(op RoundedColorOp) OpID {
	p := s.rounded.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Texture(op TextureOp) OpID {
	p := s.textures.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Convert(op ConvertOp) OpID {
	p := s.converts.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Upload(op UploadOp) OpID {
	p := s.uploads.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Mask(op MaskOp) OpID {
	p := s.masks.Alloc()
	*p = op
	return s.push(p)
}

func (s *Stream) Pattern(op PatternOp) OpID {
	p := s.patterns.Alloc()
	*p = op
	return s.push(p)
}

// Sort reorders the stream for submission. Uploads move to the front.
// A pass begun while another pass is open is moved, together with any
// pass-stage ops, in front of the enclosing pass, so that images are
// complete before they are sampled. Relative order is kept otherwise.
func (s *Stream) Sort() {
	if len(s.ops) == 0 {
		return
	}
	var uploads, out []OpID
	for id := s.First(); id != NoOp; {
		id = s.sortPass(id, &uploads, &out)
	}
	order := append(uploads, out...)

	s.first, s.last = NoOp, NoOp
	for _, id := range order {
		s.next[id] = NoOp
		if s.last == NoOp {
			s.first = id
		} else {
			s.next[s.last] = id
		}
		s.last = id
	}
}

// sortPass consumes ops starting at id up to and including the end of
// the pass it belongs to and returns the following op.
func (s *Stream) sortPass(id OpID, uploads, out *[]OpID) OpID {
	var pass []OpID
	open := false
	for id != NoOp {
		next := s.next[id]
		switch s.ops[id].Stage() {
		case StageUpload:
			*uploads = append(*uploads, id)
		case StagePass:
			*out = append(*out, id)
		case StageBeginPass:
			if open {
				next = s.sortPass(id, uploads, out)
			} else {
				open = true
				pass = append(pass, id)
			}
		case StageEndPass:
			pass = append(pass, id)
			*out = append(*out, pass...)
			return next
		default:
			pass = append(pass, id)
		}
		id = next
	}
	*out = append(*out, pass...)
	return NoOp
}

// String dumps the stream in submission order.
func (s *Stream) String() string {
	p := &Printer{stream: s}
	for id := s.First(); id != NoOp; id = s.next[id] {
		s.ops[id].Print(p)
	}
	return p.String()
}
