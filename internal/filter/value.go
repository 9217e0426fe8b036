// internal/filter/value.go
package filter

import (
	"strconv"
	"strings"
	"time"
)

/*
 * Rule values.
 *
 * Value is a closed tagged union holding one decoded rule payload: date,
 * integer, tag id, boolean, nullable reference id (correspondent, document
 * type, storage path), free string, or a raw could-not-parse fallback.
 *
 * The invalid kind is the decoder's escape hatch: malformed wire data (for
 * example a comma-joined id list delivered where a single id was expected)
 * is stored verbatim instead of failing the decode, and re-encodes to the
 * same raw string. Data is never lost even when not understood.
 *
 * Value is a comparable struct so rules and states compare with == and the
 * standard reflect.DeepEqual; only the field selected by Kind is meaningful.
 */

// DateFormat is the fixed wire format for date values.
const DateFormat = "2006-01-02"

// Ref is an optional reference id. Valid=false expresses the "field is
// unset" sentinel (correspondent = null and friends).
type Ref struct {
	ID    uint
	Valid bool
}

// SomeRef returns a present reference.
func SomeRef(id uint) Ref { return Ref{ID: id, Valid: true} }

// NoRef is the absent reference sentinel.
var NoRef = Ref{}

// Kind discriminates the Value union.
type Kind int

const (
	KindDate Kind = iota
	KindInteger
	KindTag
	KindBoolean
	KindCorrespondent
	KindDocumentType
	KindStoragePath
	KindString
	KindInvalid
)

// Value is one decoded rule payload. Constructed once at decode time or by
// caller interaction; immutable thereafter.
type Value struct {
	Kind Kind
	Date time.Time // KindDate, UTC midnight
	Int  int64     // KindInteger
	ID   uint      // KindTag
	Ref  Ref       // KindCorrespondent, KindDocumentType, KindStoragePath
	Bool bool      // KindBoolean
	Str  string    // KindString, and the raw wire string for KindInvalid
}

func DateValue(t time.Time) Value {
	// Normalize to UTC midnight so equal dates compare equal regardless of
	// the source location.
	y, m, d := t.Date()
	return Value{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func IntegerValue(n int64) Value { return Value{Kind: KindInteger, Int: n} }

func TagValue(id uint) Value { return Value{Kind: KindTag, ID: id} }

func BooleanValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

func CorrespondentValue(ref Ref) Value { return Value{Kind: KindCorrespondent, Ref: ref} }

func DocumentTypeValue(ref Ref) Value { return Value{Kind: KindDocumentType, Ref: ref} }

func StoragePathValue(ref Ref) Value { return Value{Kind: KindStoragePath, Ref: ref} }

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// InvalidValue wraps a raw wire string that failed to parse as its declared
// data type. Always permitted on any rule type.
func InvalidValue(raw string) Value { return Value{Kind: KindInvalid, Str: raw} }

// kindFor maps a declared data type to the value kind it expects.
func kindFor(dt DataType) Kind {
	switch dt {
	case DataDate:
		return KindDate
	case DataInteger:
		return KindInteger
	case DataTag:
		return KindTag
	case DataBoolean:
		return KindBoolean
	case DataCorrespondent:
		return KindCorrespondent
	case DataDocumentType:
		return KindDocumentType
	case DataStoragePath:
		return KindStoragePath
	default:
		return KindString
	}
}

// parseValue converts a raw wire string into the value kind declared by dt.
// Parse failures recover as InvalidValue rather than an error; the caller
// decides whether recovery paths (comma-joined id lists) apply.
func parseValue(dt DataType, raw string) Value {
	switch dt {
	case DataDate:
		t, err := time.Parse(DateFormat, raw)
		if err != nil {
			return InvalidValue(raw)
		}
		return DateValue(t)
	case DataInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return InvalidValue(raw)
		}
		return IntegerValue(n)
	case DataTag:
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return InvalidValue(raw)
		}
		return TagValue(uint(id))
	case DataBoolean:
		switch raw {
		case "true":
			return BooleanValue(true)
		case "false":
			return BooleanValue(false)
		default:
			return InvalidValue(raw)
		}
	case DataCorrespondent, DataDocumentType, DataStoragePath:
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return InvalidValue(raw)
		}
		ref := SomeRef(uint(id))
		switch dt {
		case DataDocumentType:
			return DocumentTypeValue(ref)
		case DataStoragePath:
			return StoragePathValue(ref)
		default:
			return CorrespondentValue(ref)
		}
	default:
		return StringValue(raw)
	}
}

// wireString renders the value back to its wire form. The second return is
// false only for an absent reference, which encodes as JSON null.
func (v Value) wireString() (string, bool) {
	switch v.Kind {
	case KindDate:
		return v.Date.Format(DateFormat), true
	case KindInteger:
		return strconv.FormatInt(v.Int, 10), true
	case KindTag:
		return strconv.FormatUint(uint64(v.ID), 10), true
	case KindBoolean:
		if v.Bool {
			return "true", true
		}
		return "false", true
	case KindCorrespondent, KindDocumentType, KindStoragePath:
		if !v.Ref.Valid {
			return "", false
		}
		return strconv.FormatUint(uint64(v.Ref.ID), 10), true
	case KindInvalid:
		// Idempotent pass-through: re-encodes exactly as received.
		return v.Str, true
	default:
		return v.Str, true
	}
}

// queryString renders the value for URL query parameters. Differs from the
// wire form only for booleans, which the backend expects as "1"/"0".
func (v Value) queryString() (string, bool) {
	if v.Kind == KindBoolean {
		if v.Bool {
			return "1", true
		}
		return "0", true
	}
	return v.wireString()
}

// commaIDs parses a raw string as a comma-separated base-10 id list. Used by
// the legacy-compat recovery path when a repeatable id rule arrives with a
// joined value instead of one rule per id.
func commaIDs(raw string) ([]uint, bool) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}
