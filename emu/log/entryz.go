package log

import (
	"fmt"
	"math"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry built field by field. Module methods return a nil
// *EntryZ when the entry is disabled; all methods accept a nil receiver, so
// that disabled log calls cost almost nothing.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryzPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	z := entryzPool.Get().(*EntryZ)
	z.zfidx = 0
	return z
}

func (z *EntryZ) add(f ZField) *EntryZ {
	if z == nil || z.zfidx == maxZFields {
		return z
	}
	z.zfbuf[z.zfidx] = f
	z.zfidx++
	return z
}

func (z *EntryZ) Bool(key string, b bool) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeBool, num: b2u(b)})
}

func (z *EntryZ) String(key string, s string) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeString, str: s})
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeStringer, obj: s})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeHex8, num: uint64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeHex16, num: uint64(v)})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeInt, num: uint64(v)})
}

func (z *EntryZ) Int64(key string, v int64) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeInt, num: uint64(v)})
}

func (z *EntryZ) Uint8(key string, v uint8) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeUint, num: uint64(v)})
}

func (z *EntryZ) Uint16(key string, v uint16) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeUint, num: uint64(v)})
}

func (z *EntryZ) Uint32(key string, v uint32) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeUint, num: uint64(v)})
}

func (z *EntryZ) Uint64(key string, v uint64) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeUint, num: v})
}

func (z *EntryZ) Float64(key string, v float64) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeFloat, num: math.Float64bits(v)})
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeDuration, num: uint64(d)})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.add(ZField{Key: key, Type: FieldTypeError, obj: err})
}

// End emits the log entry and releases it.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}

	// Contexts are added last, they never override the entry fields.
	var ctx EntryZ
	for _, c := range contexts {
		c.AddLogContext(&ctx)
	}
	for i := range ctx.zfbuf[:ctx.zfidx] {
		if _, ok := fields[ctx.zfbuf[i].Key]; !ok {
			fields[ctx.zfbuf[i].Key] = ctx.zfbuf[i].Value()
		}
	}

	entry := logrus.StandardLogger().WithFields(fields)
	switch z.lvl {
	case PanicLevel:
		entry.Panic(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	default:
		entry.Debug(z.msg)
	}

	clear(z.zfbuf[:z.zfidx])
	entryzPool.Put(z)
}
