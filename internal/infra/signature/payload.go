package signature

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// Algorithm records which scheme produced a signature. Verification
// dispatches on this value and must not assume RSA.
type Algorithm string

const (
	AlgorithmRSAPSS256 Algorithm = "RSA-PSS"
	AlgorithmHMAC256   Algorithm = "HMAC-SHA256"
	AlgorithmNone      Algorithm = "none"
)

// PlaceholderValue is the literal signature value of a degenerate signature
// emitted when signing itself failed.
const PlaceholderValue = "signature-generation-failed"

// ContextEntry is one key/value pair of signing context data. Values are
// restricted to strings, booleans, integers, floats and nested ContextMaps.
type ContextEntry struct {
	Key   string
	Value any
}

// ContextMap is an ordered mapping of context data bound into a signature.
// Canonical serialization sorts keys, so insertion order never changes the
// signed bytes.
type ContextMap []ContextEntry

// Payload is the signed triple. The bytes actually signed are always its
// canonical serialization, never an ad hoc encoding.
type Payload struct {
	SignerID  string
	Timestamp string
	Context   ContextMap
}

// CanonicalBytes serializes the payload as minified key-sorted JSON in the
// fixed wire form {"contextData":…,"signerId":…,"timestamp":…}. Two payloads
// with identical field values produce identical bytes regardless of context
// insertion order.
func (p Payload) CanonicalBytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"contextData":`)
	if err := appendCanonicalContext(&buf, p.Context); err != nil {
		return nil, err
	}
	buf.WriteString(`,"signerId":`)
	if err := appendJSONString(&buf, p.SignerID); err != nil {
		return nil, err
	}
	buf.WriteString(`,"timestamp":`)
	if err := appendJSONString(&buf, p.Timestamp); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func appendCanonicalContext(buf *bytes.Buffer, m ContextMap) error {
	if m == nil {
		buf.WriteString("null")
		return nil
	}

	sorted := make(ContextMap, len(m))
	copy(sorted, m)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	buf.WriteByte('{')
	for i, entry := range sorted {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendJSONString(buf, entry.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := appendCanonicalValue(buf, entry.Value); err != nil {
			return errors.Wrapf(err, "context key %q", entry.Key)
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendCanonicalValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case ContextMap:
		return appendCanonicalContext(buf, v)
	case string, bool, int, int32, int64, float32, float64:
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "marshal context value")
		}
		buf.Write(raw)
		return nil
	default:
		return errors.Errorf("unsupported context value type %T", value)
	}
}

func appendJSONString(buf *bytes.Buffer, s string) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal string")
	}
	buf.Write(raw)
	return nil
}
