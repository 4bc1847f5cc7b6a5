package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/ownership"
	"github.com/wippyai/ownership/engine"
	"github.com/wippyai/ownership/resource"
	"github.com/wippyai/ownership/stress"
)

func main() {
	defaults := stress.DefaultConfig()
	var (
		mode        = flag.String("mode", "", "Demo to run: up, sp or wp (read from stdin when empty)")
		stressRun   = flag.Bool("stress", false, "Run the concurrency stress scenarios")
		goroutines  = flag.Int("goroutines", defaults.Goroutines, "Stress worker goroutines")
		iterations  = flag.Int("iterations", defaults.Iterations, "Stress iterations per goroutine")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		setLoggers(logger)
	}

	cfg := defaults
	cfg.Goroutines = *goroutines
	cfg.Iterations = *iterations

	if *interactive {
		if err := runInteractive(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *stressRun {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runStress(ctx, os.Stdout, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(1)
		}
		return
	}

	m := *mode
	if m == "" {
		m = readMode(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
	}
	runMode(os.Stdout, m)
}

// readMode returns the first whitespace-delimited token from r, or "" if
// there is none. The prompt is written only for interactive input.
func readMode(r io.Reader, w io.Writer, prompt bool) string {
	if prompt {
		fmt.Fprint(w, "Mode (up, sp, wp): ")
	}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		return ""
	}
	return sc.Text()
}

func setLoggers(l *zap.Logger) {
	ownership.SetLogger(l)
	resource.SetLogger(l)
	engine.SetLogger(l)
	stress.SetLogger(l)
}
