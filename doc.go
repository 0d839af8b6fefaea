// Package readuntil reads from a blocking byte stream until a caller
// supplied condition is met or a time budget runs out.
//
// Many streams (serial ports, pipes, sockets, PTYs) only offer blocking
// reads and no way to cancel them. readuntil moves those reads onto a
// background goroutine that owns the stream and feeds a bounded buffer,
// so the caller can wait for a condition with a hard deadline.
//
// Features:
//   - Works with any io.Reader; io.ByteReader is used when available
//   - Per-call timeout, plus context cancellation via UntilContext
//   - Bounded read-ahead buffer with backpressure on the stream
//   - Sequential calls continue from the first unconsumed byte
//   - Disconnect errors keep the underlying cause
//   - Raw, killable Linux serial port (PTY-based tests)
//
// A Predicate sees the bytes accumulated so far and is evaluated once per
// received byte. The shortest accepting prefix is returned; anything after
// it stays buffered for the next call.
//
// Example usage:
//
//	r, err := readuntil.OpenSerial(readuntil.PortConfig{
//	    Device:   "/dev/ttyUSB0",
//	    BaudRate: 115200,
//	}, 2*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	banner, err := r.UntilContains("READY\r\n")
//	switch {
//	case errors.Is(err, readuntil.ErrTimeout):
//	    log.Println("device did not answer")
//	case errors.Is(err, readuntil.ErrDisconnected):
//	    log.Println("device gone:", err)
//	case err == nil:
//	    fmt.Printf("%s", banner)
//	}
//
// Any io.Reader can be wrapped directly:
//
//	r := readuntil.New(conn, 500*time.Millisecond, readuntil.WithBufferSize(64))
//	line, err := r.Until(readuntil.HasSuffix([]byte("\n")))
package readuntil
