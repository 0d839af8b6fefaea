//go:build !linux

package readuntil

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("readuntil: serial ports are only supported on linux")

// Port is unavailable on this platform; OpenPort always fails.
type Port struct{}

// PortConfig holds parameters for opening a serial port.
type PortConfig struct {
	Device   string
	BaudRate int
}

// OpenPort always fails on this platform.
func OpenPort(cfg PortConfig) (*Port, error) {
	return nil, errUnsupported
}

// OpenSerial always fails on this platform.
func OpenSerial(cfg PortConfig, timeout time.Duration, opts ...Option) (*Reader, error) {
	return nil, errUnsupported
}

func (p *Port) Read(buf []byte) (int, error)                { return 0, errUnsupported }
func (p *Port) Write(buf []byte) (int, error)               { return 0, errUnsupported }
func (p *Port) WriteLine(line string, newline string) error { return errUnsupported }
func (p *Port) Device() string                              { return "" }
func (p *Port) Close() error                                { return nil }
