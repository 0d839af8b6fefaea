package readuntil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Reader accumulates bytes from a blocking stream until a predicate is
// satisfied or a per-call timeout elapses.
//
// A background goroutine owns the stream and reads it one byte at a time
// into a bounded buffer. Bytes left unconsumed by one call are seen by the
// next, so sequential calls partition the stream without gaps or repeats.
//
// Only one Until call may run at a time. Close may be called concurrently.
type Reader struct {
	timeout      time.Duration
	pollInterval time.Duration
	pump         *pump
	log          *slog.Logger
	closeOnce    sync.Once

	// Bytes consumed by a call that timed out, replayed to the next call.
	pending []byte
}

// New starts reading r in the background and returns a Reader that applies
// timeout to every Until call. The Reader takes ownership of r: the caller
// must not read from it again. If r implements io.Closer, Close closes it.
func New(r io.Reader, timeout time.Duration, opts ...Option) *Reader {
	cfg := newConfig(opts)

	p := newPump(r, cfg.bufferSize, cfg.logger)
	go p.run()

	return &Reader{
		timeout:      timeout,
		pollInterval: cfg.pollInterval,
		pump:         p,
		log:          cfg.logger,
	}
}

// Timeout returns the budget applied to each Until call.
func (r *Reader) Timeout() time.Duration {
	return r.timeout
}

// Until reads bytes until pred accepts the accumulated bytes and returns
// them, including the byte that satisfied pred. Bytes after it stay
// buffered for the next call.
//
// It returns ErrTimeout if the timeout elapses first; the bytes read so far
// are then kept and replayed to the next call. Once the stream has ended
// and every buffered byte was consumed it returns a *DisconnectedError
// matching ErrDisconnected.
func (r *Reader) Until(pred Predicate) ([]byte, error) {
	return r.UntilContext(context.Background(), pred)
}

// UntilContext is like Until but also returns ctx.Err() if ctx is done
// before pred is satisfied. As with a timeout, no bytes are lost.
func (r *Reader) UntilContext(ctx context.Context, pred Predicate) ([]byte, error) {
	if pred == nil {
		return nil, ErrNilPredicate
	}

	result, ok := r.replay(pred)
	if ok {
		return result, nil
	}

	start := time.Now()
	var deadline <-chan time.Time
	if r.pollInterval == 0 {
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if time.Since(start) > r.timeout {
			r.pending = result
			return nil, r.timedOut(start, len(result))
		}

		b, ok, err := r.next(ctx, deadline)
		switch {
		case errors.Is(err, ErrDisconnected):
			return nil, err
		case errors.Is(err, ErrTimeout):
			r.pending = result
			return nil, r.timedOut(start, len(result))
		case err != nil:
			r.pending = result
			return nil, err
		case !ok:
			continue
		}

		result = append(result, b)
		if pred(result) {
			return result, nil
		}
	}
}

// UntilContains reads until the accumulated bytes, decoded as UTF-8 with
// invalid sequences replaced, contain sub.
func (r *Reader) UntilContains(sub string) ([]byte, error) {
	return r.Until(ContainsString(sub))
}

// UntilSuffix reads until the accumulated bytes end with suffix.
func (r *Reader) UntilSuffix(suffix []byte) ([]byte, error) {
	return r.Until(HasSuffix(suffix))
}

// replay feeds bytes kept from a failed call to pred, one at a time.
// If pred accepts, the remainder is kept for the following call.
func (r *Reader) replay(pred Predicate) ([]byte, bool) {
	buf := r.pending
	r.pending = nil
	for i := range buf {
		if pred(buf[:i+1]) {
			if rest := buf[i+1:]; len(rest) > 0 {
				r.pending = bytes.Clone(rest)
			}
			return buf[: i+1 : i+1], true
		}
	}
	return buf, false
}

// next returns the next byte from the pump. ok is false when the poll
// interval elapsed without data.
func (r *Reader) next(ctx context.Context, deadline <-chan time.Time) (b byte, ok bool, err error) {
	if r.pollInterval > 0 {
		select {
		case b, open := <-r.pump.out:
			if !open {
				return 0, false, r.disconnected()
			}
			return b, true, nil
		case <-ctx.Done():
			return 0, false, ctx.Err()
		default:
			time.Sleep(r.pollInterval)
			return 0, false, nil
		}
	}

	select {
	case b, open := <-r.pump.out:
		if !open {
			return 0, false, r.disconnected()
		}
		return b, true, nil
	case <-deadline:
		return 0, false, ErrTimeout
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

func (r *Reader) timedOut(start time.Time, kept int) error {
	r.log.Debug("until timed out", "elapsed", time.Since(start), "kept", kept)
	return ErrTimeout
}

func (r *Reader) disconnected() error {
	r.log.Debug("until disconnected", "cause", r.pump.err)
	return &DisconnectedError{Cause: r.pump.err}
}

// Done returns a channel that is closed once the background reader has
// stopped, either because the stream failed or because Close was called.
func (r *Reader) Done() <-chan struct{} {
	return r.pump.done
}

// Err returns the reason the background reader stopped, or nil while it is
// still running. It is ErrClosed after Close.
func (r *Reader) Err() error {
	select {
	case <-r.pump.done:
		return r.pump.err
	default:
		return nil
	}
}

// Close stops the background reader and, if the stream implements
// io.Closer, closes it so a blocked read returns. Bytes already buffered
// can still be consumed; after that Until reports ErrDisconnected.
// Safe to call multiple times; subsequent calls are no-ops.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.pump.stop)
		if c, ok := r.pump.src.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}
