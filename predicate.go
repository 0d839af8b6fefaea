package readuntil

import (
	"bytes"
	"strings"
)

// Predicate decides whether the bytes accumulated so far satisfy the
// stopping condition. It is called once per received byte with a growing
// prefix and must not retain or modify buf.
type Predicate func(buf []byte) bool

// Contains accepts once sub appears anywhere in the accumulated bytes.
// An empty sub accepts after the first byte.
func Contains(sub []byte) Predicate {
	sub = bytes.Clone(sub)
	return func(buf []byte) bool {
		return bytes.Contains(buf, sub)
	}
}

// ContainsByte accepts once b has been received.
func ContainsByte(b byte) Predicate {
	return func(buf []byte) bool {
		return bytes.IndexByte(buf, b) >= 0
	}
}

// ContainsString accepts once the accumulated bytes, decoded as UTF-8 with
// invalid sequences replaced by U+FFFD, contain sub.
func ContainsString(sub string) Predicate {
	return func(buf []byte) bool {
		return strings.Contains(lossyString(buf), sub)
	}
}

// HasSuffix accepts once the accumulated bytes end with suffix.
func HasSuffix(suffix []byte) Predicate {
	suffix = bytes.Clone(suffix)
	return func(buf []byte) bool {
		return bytes.HasSuffix(buf, suffix)
	}
}

// MinLen accepts once at least n bytes have been accumulated.
func MinLen(n int) Predicate {
	return func(buf []byte) bool {
		return len(buf) >= n
	}
}

// Any accepts when at least one of preds accepts.
func Any(preds ...Predicate) Predicate {
	return func(buf []byte) bool {
		for _, p := range preds {
			if p(buf) {
				return true
			}
		}
		return false
	}
}

// All accepts when every one of preds accepts. With no preds it always accepts.
func All(preds ...Predicate) Predicate {
	return func(buf []byte) bool {
		for _, p := range preds {
			if !p(buf) {
				return false
			}
		}
		return true
	}
}

func lossyString(b []byte) string {
	return string(bytes.ToValidUTF8(b, []byte("�")))
}
