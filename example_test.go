package readuntil_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	readuntil "github.com/luhtfiimanal/go-readuntil"
)

func Example() {
	r := readuntil.New(strings.NewReader("hello world"), time.Second)
	defer r.Close()

	got, err := r.UntilContains("llo wo")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%q\n", got)
	// Output: "hello wo"
}

func ExampleReader_Until() {
	r := readuntil.New(strings.NewReader("OK\r\n+CSQ: 21,0\r\nOK\r\n"), time.Second)
	defer r.Close()

	for {
		line, err := r.Until(readuntil.HasSuffix([]byte("\r\n")))
		if errors.Is(err, readuntil.ErrDisconnected) {
			break
		}
		fmt.Printf("%q\n", line)
	}
	// Output:
	// "OK\r\n"
	// "+CSQ: 21,0\r\n"
	// "OK\r\n"
}

func ExampleReader_Until_timeout() {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := readuntil.New(pr, 10*time.Millisecond)
	defer r.Close()

	_, err := r.UntilContains("never")
	fmt.Println(errors.Is(err, readuntil.ErrTimeout))
	// Output: true
}
