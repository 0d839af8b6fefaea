//go:build linux

package readuntil

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

func TestPort_ChatMasterSlave(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := OpenPort(PortConfig{Device: slave.Name(), BaudRate: 115200})
	require.NoError(t, err)
	require.Equal(t, slave.Name(), port.Device())

	r := New(port, time.Second, WithLogger(testLogger(t)))
	t.Cleanup(func() { r.Close() })

	// Port writes a command, master plays the device and answers.
	require.NoError(t, port.WriteLine("C,START", "\r\n"))

	buf := make([]byte, 64)
	n, err := master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "C,START\r\n", string(buf[:n]))

	_, err = master.Write([]byte("ACK\r\nDATA,1\r\n"))
	require.NoError(t, err)

	got, err := r.UntilContains("ACK\r\n")
	require.NoError(t, err)
	require.Equal(t, "ACK\r\n", string(got))

	got, err = r.UntilSuffix([]byte("\r\n"))
	require.NoError(t, err)
	require.Equal(t, "DATA,1\r\n", string(got))
}

func TestPort_BasicRead(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	r, err := OpenSerial(PortConfig{Device: slave.Name(), BaudRate: 9600}, 100*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = master.Write([]byte("hello\n"))
	require.NoError(t, err)

	got, err := r.UntilSuffix([]byte("\n"))
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(got))
}

func TestPort_Timeout(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	r, err := OpenSerial(PortConfig{Device: slave.Name()}, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = master.Write([]byte("no newline"))
	require.NoError(t, err)

	_, err = r.UntilSuffix([]byte("\n"))
	require.ErrorIs(t, err, ErrTimeout)
}

func TestPort_WriteLine(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := OpenPort(PortConfig{Device: slave.Name(), BaudRate: 115200})
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })

	line := "testline"
	newline := "\r\n"
	require.NoError(t, port.WriteLine(line, newline))

	buf := make([]byte, len(line)+len(newline))
	n, err := master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(line)+len(newline), n)
	require.Equal(t, line+newline, string(buf))
}

func TestPort_Killability(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	r, err := OpenSerial(PortConfig{Device: slave.Name(), BaudRate: 115200}, time.Second)
	require.NoError(t, err)

	_, err = master.Write([]byte("test data\n"))
	require.NoError(t, err)

	got, err := r.UntilSuffix([]byte("\n"))
	require.NoError(t, err)
	require.Equal(t, "test data\n", string(got))

	// The pump is now blocked in Read; Close must wake it.
	require.NoError(t, r.Close())

	select {
	case <-r.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for pump to exit after Close")
	}
	require.ErrorIs(t, r.Err(), ErrClosed)

	_, err = r.UntilSuffix([]byte("\n"))
	require.ErrorIs(t, err, ErrDisconnected)

	require.NoError(t, r.Close())
}

func TestPort_ErrorPropagation(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { slave.Close() })

	r, err := OpenSerial(PortConfig{Device: slave.Name()}, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	// Simulate device disconnect by closing master
	require.NoError(t, master.Close())

	_, err = r.UntilSuffix([]byte("\n"))
	require.ErrorIs(t, err, ErrDisconnected)
	require.NotErrorIs(t, err, ErrClosed)

	var disc *DisconnectedError
	require.ErrorAs(t, err, &disc)
	require.Error(t, disc.Cause)
}

func TestOpenPort_MissingDevice(t *testing.T) {
	_, err := OpenPort(PortConfig{Device: "/dev/does-not-exist"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "open failed")
}
