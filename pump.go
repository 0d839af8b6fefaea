package readuntil

import (
	"io"
	"log/slog"
)

// Consecutive empty reads tolerated before the pump gives up on a stream.
const maxEmptyReads = 100

// pump owns the stream and forwards it one byte at a time into out.
type pump struct {
	src  io.Reader
	out  chan byte
	stop chan struct{} // closed by Reader.Close
	done chan struct{} // closed when run returns
	err  error         // valid once out is closed
	log  *slog.Logger
}

func newPump(src io.Reader, size int, log *slog.Logger) *pump {
	return &pump{
		src:  src,
		out:  make(chan byte, size),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		log:  log,
	}
}

func (p *pump) run() {
	defer close(p.done)
	defer close(p.out)

	readByte := byteReader(p.src)
	p.log.Debug("pump started", "buffer", cap(p.out))

	var n int64
	for {
		b, err := readByte()
		if err != nil {
			if p.stopped() {
				err = ErrClosed
			}
			p.err = err
			p.log.Debug("pump stopped", "bytes", n, "cause", err)
			return
		}
		if p.stopped() {
			p.err = ErrClosed
			p.log.Debug("pump stopped", "bytes", n, "cause", ErrClosed)
			return
		}

		// Blocks while the buffer is full.
		select {
		case p.out <- b:
			n++
		case <-p.stop:
			p.err = ErrClosed
			p.log.Debug("pump stopped", "bytes", n, "cause", ErrClosed)
			return
		}
	}
}

func (p *pump) stopped() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// byteReader returns a function reading exactly one byte from r per call.
// A byte returned together with an error is delivered first; the error is
// reported on the following call.
func byteReader(r io.Reader) func() (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte
	}

	var (
		buf     [1]byte
		pending error
	)
	return func() (byte, error) {
		if pending != nil {
			return 0, pending
		}
		for i := 0; i < maxEmptyReads; i++ {
			n, err := r.Read(buf[:])
			if n == 1 {
				pending = err
				return buf[0], nil
			}
			if err != nil {
				return 0, err
			}
		}
		return 0, io.ErrNoProgress
	}
}
