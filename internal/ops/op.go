// Package ops defines the backend-agnostic op stream produced by the node
// compiler.
//
// Ops are typed records appended in emission order to a Stream. Each op
// carries a Stage used to schedule submission: uploads run first, nested
// offscreen passes run before the pass that samples them, and everything
// else keeps emission order. Backends walk the stream through the
// Commander interface; a single Command call may consume several ops to
// batch them.
//
// Ops live in per-type slabs owned by the Stream. Reset releases the whole
// frame at once after calling each op's Finish.
package ops

// Stage orders ops for submission.
type Stage uint8

const (
	// StageUpload ops copy pixel data into images before any pass runs.
	StageUpload Stage = iota
	// StagePass ops operate on whole images outside render passes.
	StagePass
	// StageCommand ops change pass state: globals, scissor, blend, clear.
	StageCommand
	// StageShader ops draw.
	StageShader
	// StageBeginPass starts a render pass.
	StageBeginPass
	// StageEndPass ends a render pass.
	StageEndPass
)

var stageNames = [...]string{
	StageUpload:    "upload",
	StagePass:      "pass",
	StageCommand:   "command",
	StageShader:    "shader",
	StageBeginPass: "begin-pass",
	StageEndPass:   "end-pass",
}

// String returns the stage name.
func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Kind identifies the type of an op.
type Kind uint8

const (
	KindGlobals Kind = iota
	KindScissor
	KindBlend
	KindClear
	KindBeginPass
	KindEndPass
	KindColor
	KindRoundedColor
	KindTexture
	KindUpload
	KindConvert
	KindMask
	KindPattern
)

// KindUnknown is returned by ParseKind for unrecognised names.
const KindUnknown Kind = 0xff

var kindNames = [...]string{
	KindGlobals:      "globals",
	KindScissor:      "scissor",
	KindBlend:        "blend",
	KindClear:        "clear",
	KindBeginPass:    "begin-pass",
	KindEndPass:      "end-pass",
	KindColor:        "color",
	KindRoundedColor: "rounded-color",
	KindTexture:      "texture",
	KindUpload:       "upload",
	KindConvert:      "convert",
	KindMask:         "mask",
	KindPattern:      "pattern",
}

// String returns the op kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}

// Op is implemented by every op type.
type Op interface {
	// Kind returns the op type.
	Kind() Kind
	// Stage returns the scheduling stage.
	Stage() Stage
	// Print writes a one-line description for debugging.
	Print(p *Printer)
	// Finish releases resources held by the op. It is called once when
	// the stream is reset.
	Finish()
}

// OpID is the stable index of an op within its Stream.
type OpID int32

// NoOp terminates op chains.
const NoOp OpID = -1

// Commander is implemented once per backend. Command executes the op id
// and returns the id of the next op to process, which allows a backend
// to consume several consecutive ops in one call.
type Commander interface {
	Command(s *Stream, id OpID) (OpID, error)
}

// Walk runs c over every op of s in submission order.
func Walk(s *Stream, c Commander) error {
	for id := s.First(); id != NoOp; {
		next, err := c.Command(s, id)
		if err != nil {
			return err
		}
		id = next
	}
	return nil
}
