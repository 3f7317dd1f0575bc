package signature_test

import (
	"testing"

	"github.com/sealdoc/sealdoc/internal/infra/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalBytesWireForm(t *testing.T) {
	payload := signature.Payload{
		SignerID:  "alice",
		Timestamp: "2024-01-01T00:00:00Z",
		Context:   signature.ContextMap{{Key: "file", Value: "a.txt"}},
	}

	canonical, err := payload.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t,
		`{"contextData":{"file":"a.txt"},"signerId":"alice","timestamp":"2024-01-01T00:00:00Z"}`,
		string(canonical))
}

func TestCanonicalBytesInsertionOrderIndependent(t *testing.T) {
	first := signature.Payload{
		SignerID:  "alice",
		Timestamp: "2024-01-01T00:00:00Z",
		Context: signature.ContextMap{
			{Key: "b", Value: int64(2)},
			{Key: "a", Value: "one"},
			{Key: "c", Value: true},
		},
	}
	second := signature.Payload{
		SignerID:  "alice",
		Timestamp: "2024-01-01T00:00:00Z",
		Context: signature.ContextMap{
			{Key: "c", Value: true},
			{Key: "a", Value: "one"},
			{Key: "b", Value: int64(2)},
		},
	}

	firstBytes, err := first.CanonicalBytes()
	require.NoError(t, err)
	secondBytes, err := second.CanonicalBytes()
	require.NoError(t, err)

	assert.Equal(t, firstBytes, secondBytes)
	assert.Equal(t, `{"contextData":{"a":"one","b":2,"c":true},"signerId":"alice","timestamp":"2024-01-01T00:00:00Z"}`, string(firstBytes))
}

func TestCanonicalBytesNestedContext(t *testing.T) {
	payload := signature.Payload{
		SignerID:  "system",
		Timestamp: "2024-06-01T12:00:00Z",
		Context: signature.ContextMap{
			{Key: "meta", Value: signature.ContextMap{
				{Key: "z", Value: 1},
				{Key: "a", Value: "x"},
			}},
		},
	}

	canonical, err := payload.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t, `{"contextData":{"meta":{"a":"x","z":1}},"signerId":"system","timestamp":"2024-06-01T12:00:00Z"}`, string(canonical))
}

func TestCanonicalBytesNilContext(t *testing.T) {
	payload := signature.Payload{SignerID: "alice", Timestamp: "2024-01-01T00:00:00Z"}

	canonical, err := payload.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t, `{"contextData":null,"signerId":"alice","timestamp":"2024-01-01T00:00:00Z"}`, string(canonical))
}

func TestCanonicalBytesRejectsUnsupportedValue(t *testing.T) {
	payload := signature.Payload{
		SignerID:  "alice",
		Timestamp: "2024-01-01T00:00:00Z",
		Context:   signature.ContextMap{{Key: "bad", Value: struct{ X int }{1}}},
	}

	_, err := payload.CanonicalBytes()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported context value")
}
