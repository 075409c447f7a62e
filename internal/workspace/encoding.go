package workspace

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/deepgate/deepgate/internal/protocol"
)

// resolveEncoding maps a client-supplied encoding name to an x/text
// encoding. UTF-8 (the default) is handled natively and returns a nil
// encoding. The returned canonical name is what goes back on the wire.
func resolveEncoding(name string) (encoding.Encoding, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || normalized == "utf-8" || normalized == "utf8" {
		return nil, "utf-8", nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, "", protocol.E(protocol.KindValidation, "unknown encoding: %q", name)
	}
	return enc, normalized, nil
}

// decode converts raw file bytes into a string under enc. A nil enc means
// UTF-8, which is validated rather than transformed.
func decode(raw []byte, enc encoding.Encoding, canonical, path string) (string, error) {
	if enc == nil {
		if !utf8.Valid(raw) {
			return "", protocol.E(protocol.KindDecode, "file is not valid utf-8: %s", path)
		}
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", protocol.Wrap(protocol.KindDecode, err, "file is not valid %s: %s", canonical, path)
	}
	return string(decoded), nil
}

// encode converts content to bytes under enc. A nil enc means UTF-8.
func encode(content string, enc encoding.Encoding, canonical string) ([]byte, error) {
	if enc == nil {
		return []byte(content), nil
	}

	encoded, err := enc.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return nil, protocol.Wrap(protocol.KindDecode, err, "content is not representable in %s", canonical)
	}
	return encoded, nil
}
