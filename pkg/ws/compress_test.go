package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"SendMessage":{"msg":"hello"}}`),
		[]byte(""),
		make([]byte, 4096),
	}

	for _, payload := range payloads {
		compressed, err := Compress(payload)
		require.NoError(t, err)

		decompressed, err := Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, payload, decompressed)
	}
}

func TestDecompress_GarbageInput(t *testing.T) {
	_, err := Decompress([]byte("definitely not zlib"))
	require.Error(t, err)
}
