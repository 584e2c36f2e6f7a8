package parsing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadFileTextUTF8(t *testing.T) {
	path := writeTempFile(t, "utf8.txt", []byte("héllo 世界"))

	content, err := ReadFileText(path)
	require.NoError(t, err)
	assert.Equal(t, "héllo 世界", content)
}

func TestReadFileTextGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("你好世界"))
	require.NoError(t, err)
	path := writeTempFile(t, "gbk.txt", encoded)

	content, err := ReadFileText(path)
	require.NoError(t, err)
	assert.Equal(t, "你好世界", content)
}

func TestReadFileTextLatin1(t *testing.T) {
	// 0xE9 is a dangling lead byte in GBK and GB18030, so only
	// the latin-1 decoder produces clean output.
	path := writeTempFile(t, "latin1.txt", append([]byte("caf"), 0xE9))

	content, err := ReadFileText(path)
	require.NoError(t, err)
	assert.Equal(t, "café", content)
}

func TestReadFileTextMissingFile(t *testing.T) {
	_, err := ReadFileText(filepath.Join(t.TempDir(), "missing.txt"))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
