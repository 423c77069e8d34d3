package hashutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateChecksum(t *testing.T) {
	content := "<DataType Key=\"k\" Level=\"0\" />\n"

	checksum, err := CalculateChecksum(strings.NewReader(content))
	require.NoError(t, err)

	assert.Contains(t, checksum, "sha256:")
	assert.Len(t, checksum, 71) // "sha256:" + 64 hex chars
	assert.Equal(t, checksum, BytesChecksum([]byte(content)))
}

func TestBytesChecksum_DiffersOnContent(t *testing.T) {
	assert.NotEqual(t, BytesChecksum([]byte("a")), BytesChecksum([]byte("b")))
}
