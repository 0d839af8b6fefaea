package readuntil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		in   string
		want bool
	}{
		{"contains match", Contains([]byte("lo w")), "hello world", true},
		{"contains miss", Contains([]byte("low")), "hello world", false},
		{"contains empty", Contains(nil), "x", true},
		{"contains byte", ContainsByte('w'), "hello world", true},
		{"contains byte miss", ContainsByte('z'), "hello world", false},
		{"contains string", ContainsString("wor"), "hello world", true},
		{"contains string lossy", ContainsString("�ok"), "\xffok", true},
		{"contains string invalid never fails", ContainsString("ok"), "\xc3", false},
		{"suffix", HasSuffix([]byte("\r\n")), "line\r\n", true},
		{"suffix miss", HasSuffix([]byte("\r\n")), "line\r", false},
		{"min len", MinLen(3), "abc", true},
		{"min len short", MinLen(4), "abc", false},
		{"any", Any(ContainsByte('x'), ContainsByte('b')), "abc", true},
		{"any none", Any(), "abc", false},
		{"all", All(ContainsByte('a'), MinLen(3)), "abc", true},
		{"all one fails", All(ContainsByte('a'), MinLen(4)), "abc", false},
		{"all none", All(), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.pred([]byte(tt.in)))
		})
	}
}

func TestContains_ArgumentCopied(t *testing.T) {
	sub := []byte("ok")
	pred := Contains(sub)
	sub[0] = 'n'
	require.True(t, pred([]byte("ok")))
}

func TestAll_EarlierMatchStillCounts(t *testing.T) {
	// Contains must look at the whole buffer, not just the newest byte.
	pred := All(ContainsByte(5), MinLen(7))
	buf := []byte{1, 2, 3, 4, 5, 6}
	require.False(t, pred(buf))
	require.True(t, pred(append(buf, 7)))
}
