package interpreter

import (
	"math"
	"unicode/utf8"
)

func float64bits(f float64) uint64 { return math.Float64bits(f) }

func float32bitsToFloat(b uint32) float32 { return math.Float32frombits(b) }

func float64bitsToFloat(b uint64) float64 { return math.Float64frombits(b) }

func isValidUtf8(b []byte) bool { return utf8.Valid(b) }
