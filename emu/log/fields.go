package log

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeUint
	FieldTypeFloat
	FieldTypeError
	FieldTypeDuration
	FieldTypeStringer
)

// ZField is a typed field of an EntryZ. Booleans, integers, floats and
// durations are stored in num, strings in str and everything else in obj.
type ZField struct {
	Key  string
	Type FieldType

	num uint64
	str string
	obj any
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.num != 0)
	case FieldTypeString:
		return f.str
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.num), 10)
	case FieldTypeUint:
		return strconv.FormatUint(f.num, 10)
	case FieldTypeFloat:
		return strconv.FormatFloat(math.Float64frombits(f.num), 'g', -1, 64)
	case FieldTypeHex8:
		return fmt.Sprintf("%02x", f.num)
	case FieldTypeHex16:
		return fmt.Sprintf("%04x", f.num)
	case FieldTypeDuration:
		return time.Duration(f.num).String()
	case FieldTypeError:
		if f.obj == nil {
			return "<nil>"
		}
		return f.obj.(error).Error()
	case FieldTypeStringer:
		return f.obj.(fmt.Stringer).String()
	}
	return ""
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
