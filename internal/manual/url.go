package manual

import (
	"fmt"
	"strings"
)

// BuildFileURL percent-encodes each segment of relativePath and joins the
// result to baseURL with a single slash. An empty baseURL yields the encoded path.
func BuildFileURL(baseURL, relativePath string) string {
	segments := strings.Split(relativePath, "/")
	for i, seg := range segments {
		segments[i] = encodeURIComponent(seg)
	}
	encoded := strings.Join(segments, "/")

	if baseURL == "" {
		return encoded
	}
	return strings.TrimRight(baseURL, "/") + "/" + encoded
}

// encodeURIComponent escapes every byte except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
// url.PathEscape keeps a different set, which would change already stored URLs.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
