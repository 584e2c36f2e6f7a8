package parsing

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// fallbackEncodings are tried in order when content is not valid UTF-8.
// GB18030 covers the GB2312 range common in older Chinese chat exports.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"gb18030", simplifiedchinese.GB18030},
	{"latin-1", charmap.ISO8859_1},
}

// ReadFileText reads a file and decodes it to UTF-8, trying UTF-8 first and
// then the legacy fallback encodings. A file that cannot be read or decoded
// yields a DecodeError.
func ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &DecodeError{Path: path, Err: err}
	}
	return decodeText(path, data)
}

func decodeText(path string, data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, fallback := range fallbackEncodings {
		decoded, err := fallback.enc.NewDecoder().Bytes(data)
		if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		return string(decoded), nil
	}

	return "", &DecodeError{Path: path, Err: fmt.Errorf("no supported encoding matched")}
}
