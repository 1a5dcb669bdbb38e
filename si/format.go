// Package si encodes and decodes the compact binary form of a built
// vector document. The format stores the canonical tables once in a
// header, then a flat instruction stream that references table entries by
// index, so repeated colors, strings and images cost one varint each.
//
// An Encoder implements vg.Builder: handing it to vg.Build serializes the
// document. Decode replays a stream into any vg.Builder, reconstructing
// the scene without re-running resolution.
package si

// File layout:
//
//	header   magic u32be, version u8, flags u8
//	images   varint count, per image: x,y,w,h floats, varint len, bytes
//	strings  varint count, per string: varint len, UTF-8 bytes
//	lists    varint count, per list: varint n, n x varint string index
//	floats   varint count, raw float32le each (float64le with BigFloats)
//	stream   one opcode byte per builder call, operands as below
//
// "float" in table and operand positions means a raw little-endian value
// sized by the header flag; "index" means a varint into a canonical table.
//
// Operand encoding per opcode:
//
//	vector        flags u8 (hasWidth, hasHeight, hasTint), width and
//	              height as raw floats, tint color record, tintMode u8
//	group         blend and hasTransform pack into the byte after the
//	              opcode (blend<<1 | hasTransform); transform as 6 raw
//	              floats when present. opGroupAlpha carries a trailing
//	              alpha byte, opGroup means opaque.
//	startPath     paint record, then verb opcodes until opPathEnd; verb
//	              coordinates are raw floats, never canonicalized
//	clipPath      rule u8, varint len, path data bytes
//	masked        flags u8 (hasBounds, lumaOnly), 4 raw floats when
//	              bounded
//	image         image index
//	textChunk     x index, y index, anchor u8
//	textSpan      dx index, dy index, text index, families list index,
//	              size index, style u8, weight varint, baseline u8,
//	              decoration u8, paint record
//	exportedID    string index
//
// Color record: kind u8 (0 none, 1 solid, 2 gradient); solid is ARGB
// u32le; gradient is kind u8, spread u8, varint coord count with coord
// indices, 6 transform indices, varint stop count with per-stop offset
// index and ARGB u32le.
//
// Paint record: fill color record, stroke color record, width index,
// miterLimit index, cap u8, join u8, fillRule u8, clipRule u8, varint
// dash count; when dashes exist, dashOffset index then per-dash indices.
// The index set matches vg's float-interning walk exactly, so every index
// written here exists in the float table.

// Magic identifies an si stream.
const Magic uint32 = 0xB0975847

// Version is the format version this package reads and writes.
const Version = 1

// Header flag bits.
const (
	// flagBigFloats stores table floats and inline coordinates as 64-bit
	// values.
	flagBigFloats = 1 << 0
)

// Instruction opcodes, one per builder-protocol call. Path verbs share
// the opcode space; they are valid only between opStartPath and
// opPathEnd.
const (
	opVector uint8 = iota + 1
	opEndVector
	opGroup      // opaque: no alpha operand
	opGroupAlpha // alpha byte follows the operands
	opEndGroup
	opStartPath
	opClipPath
	opMasked
	opMaskedChild
	opEndMasked
	opImage
	opText
	opTextChunk
	opTextSpan
	opTextEnd
	opExportedID
	opEndExportedID
	opTraversalDone

	opMoveTo
	opLineTo
	opQuadTo
	opCubicTo
	opArcTo
	opOval
	opClose
	opPathEnd
)

// vector flags
const (
	vecHasWidth  = 1 << 0
	vecHasHeight = 1 << 1
	vecHasTint   = 1 << 2
)

// masked flags
const (
	maskHasBounds = 1 << 0
	maskLumaOnly  = 1 << 1
)

// arc flags
const (
	arcLarge = 1 << 0
	arcSweep = 1 << 1
)

// color record kinds
const (
	colNone uint8 = iota
	colSolid
	colGradient
)
