package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	readuntil "github.com/luhtfiimanal/go-readuntil"
)

var (
	device       string
	baudRate     int
	until        string
	timeout      time.Duration
	count        int
	send         string
	newline      string
	bufferSize   int
	pollInterval time.Duration
	quote        bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "readuntil",
	Short: "Read from a serial port or stdin until a marker appears",
	Long: `readuntil reads a byte stream until the given marker has been received and
prints everything up to and including it. With --count it reads that many
consecutive records. It exits non-zero if a record does not arrive in time
or the stream ends first.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(os.Stderr, verbose)
		return run(cmd.InOrStdin(), cmd.OutOrStdout(), log)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&device, "device", "d", "", "serial device to read from (default stdin)")
	rootCmd.Flags().IntVar(&baudRate, "baud", 115200, "baud rate for --device")
	rootCmd.Flags().StringVarP(&until, "until", "u", "", "marker that ends a record")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Second, "time budget per record")
	rootCmd.Flags().IntVarP(&count, "count", "n", 1, "number of records to read")
	rootCmd.Flags().StringVar(&send, "send", "", "line written to --device before reading")
	rootCmd.Flags().StringVar(&newline, "newline", "\r\n", "line ending used by --send")
	rootCmd.Flags().IntVar(&bufferSize, "buffer", 1024, "bytes read ahead of the consumer")
	rootCmd.Flags().DurationVar(&pollInterval, "poll", 0, "poll instead of waiting, with this interval")
	rootCmd.Flags().BoolVarP(&quote, "quote", "q", false, "print records Go-quoted")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.MarkFlagRequired("until")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w *os.File, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !term.IsTerminal(int(w.Fd())),
	}))
}

func run(in io.Reader, out io.Writer, log *slog.Logger) error {
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}

	opts := []readuntil.Option{
		readuntil.WithBufferSize(bufferSize),
		readuntil.WithPollInterval(pollInterval),
		readuntil.WithLogger(log),
	}

	r, err := open(in, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	for i := 0; i < count; i++ {
		start := time.Now()
		record, err := r.UntilContains(until)
		if err != nil {
			log.Error("read failed", "record", i+1, "err", err)
			return err
		}
		log.Debug("record read", "record", i+1, "bytes", len(record), "elapsed", time.Since(start))
		if err := printRecord(out, record); err != nil {
			return err
		}
	}
	return nil
}

func open(in io.Reader, opts []readuntil.Option) (*readuntil.Reader, error) {
	if device == "" || device == "-" {
		if send != "" {
			return nil, fmt.Errorf("--send requires --device")
		}
		return readuntil.New(in, timeout, opts...), nil
	}

	port, err := readuntil.OpenPort(readuntil.PortConfig{Device: device, BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if send != "" {
		if err := port.WriteLine(send, newline); err != nil {
			port.Close()
			return nil, fmt.Errorf("send: %w", err)
		}
	}
	return readuntil.New(port, timeout, opts...), nil
}

func printRecord(out io.Writer, record []byte) error {
	var err error
	if quote {
		_, err = fmt.Fprintf(out, "%q\n", record)
	} else {
		_, err = out.Write(record)
	}
	return err
}
