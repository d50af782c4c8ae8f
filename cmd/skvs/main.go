// Package main is the entry point for the skvs command-line front end.
//
// Usage:
//
//	skvs [flags] repl                 — interactive mode
//	skvs [flags] set <key> <value>    — insert a new key
//	skvs [flags] update <key> <value> — insert or update a key
//	skvs [flags] get <key>            — print a key's value and metadata
//	skvs [flags] del <key>            — remove a key
//	skvs [flags] metrics              — print store metrics
//	skvs version                      — print version
//
// The -a address flag is accepted and reported but nothing binds it:
// skvs is an embedded store with a command-line front end only.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kisom/skvs/internal/config"
	"github.com/kisom/skvs/internal/observability"
	"github.com/kisom/skvs/internal/store"
)

const (
	version = "0.1.0"
	appName = "skvs"
)

func main() {
	var (
		addr    = flag.String("a", "", "`address` to listen on")
		file    = flag.String("f", "", "`path` to the store snapshot")
		backend = flag.String("b", "", "snapshot `backend`: file or sqlite")
		cfgPath = flag.String("c", "", "`path` to a YAML config file")
	)
	flag.Usage = printUsage
	flag.Parse()

	cmd := flag.Arg(0)
	switch cmd {
	case "version":
		fmt.Printf("%s v%s\n", appName, version)
		return
	case "help":
		printUsage()
		return
	case "configure":
		runConfigure(*cfgPath)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *file != "" {
		cfg.StorePath = *file
	}
	if *backend != "" {
		cfg.Backend = *backend
	}

	level, err := observability.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
	log := observability.NewLogger(appName, os.Stderr, level)

	ops := observability.NewCollector()
	s, closeStore, err := openStore(cfg, log, ops)
	if err != nil {
		log.Error("open store", "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	switch cmd {
	case "", "repl":
		runREPL(s, ops, cfg, log)
	case "get", "set", "update", "del", "metrics":
		if err := runOneShot(s, ops, cmd, flag.Args()[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `%s v%s — simple key-value store

Usage:
  %s [flags] <command>

Commands:
  repl                 Interactive mode (default)
  set <key> <value>    Insert a new key
  update <key> <value> Insert or update a key
  get <key>            Print a key's value and metadata
  del <key>            Remove a key
  metrics              Print store metrics
  configure            Write a config file interactively
  version              Print version

Flags:
`, appName, version, appName)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Environment variables:
  SKVS_ADDR       Listen address (default: localhost:8000)
  SKVS_STORE      Store snapshot path (default: store.json)
  SKVS_BACKEND    Snapshot backend: file or sqlite (default: file)
  SKVS_LOG_LEVEL  Log level: debug, info, warn, error (default: info)
`)
}

// openStore constructs or loads the store for the configured backend. The
// returned func releases backend resources and must be called on exit.
func openStore(cfg *config.Config, log *observability.Logger, ops *observability.Collector) (*store.Store, func(), error) {
	var (
		s   *store.Store
		err error
	)
	cleanup := func() {}

	switch cfg.Backend {
	case config.BackendSQLite:
		var snap *store.SQLiteSnapshotter
		snap, err = store.NewSQLiteSnapshotter(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { snap.Close() }
		s, err = store.OpenWith(cfg.StorePath, snap)
	default:
		s, err = store.Open(cfg.StorePath)
	}
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	s.SetLogger(log.With("subsystem", "store"))
	s.SetCollector(ops)
	log.Debug("store ready", "path", cfg.StorePath, "backend", cfg.Backend, "size", s.Len())
	return s, cleanup, nil
}

// runOneShot performs a single operation and flushes before returning.
func runOneShot(s *store.Store, ops *observability.Collector, cmd string, args []string) error {
	switch cmd {
	case "get":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s get <key>", appName)
		}
		ent, ok := s.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q doesn't exist", args[0])
		}
		fmt.Printf("%s (version %d, updated %d)\n", ent.Value, ent.Version, ent.Time)
		return nil

	case "set", "update":
		if len(args) < 2 {
			return fmt.Errorf("usage: %s %s <key> <value>", appName, cmd)
		}
		var (
			res store.WriteResult
			err error
		)
		if cmd == "set" {
			res, err = s.Insert(args[0], args[1])
		} else {
			res, err = s.Update(args[0], args[1])
		}
		if err != nil {
			return err
		}
		fmt.Println(res)
		return s.Flush()

	case "del":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s del <key>", appName)
		}
		fmt.Println(s.Delete(args[0]))
		return s.Flush()

	case "metrics":
		printMetrics(os.Stdout, s, ops)
		return nil
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

// runREPL runs the interactive loop, flushing on quit and on SIGINT or
// SIGTERM.
func runREPL(s *store.Store, ops *observability.Collector, cfg *config.Config, log *observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		if err := s.Flush(); err != nil {
			log.Error("flush on shutdown", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	// The configured address is announced but never bound; there is no
	// listener behind it.
	fmt.Printf("%s v%s — interactive mode (type quit to exit)\n", appName, version)
	fmt.Printf("listening on %s\n", cfg.Addr)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		replCommand(s, ops, line)
	}

	if err := s.Flush(); err != nil {
		log.Error("flush on exit", "error", err)
		os.Exit(1)
	}
}

// replCommand dispatches one line of REPL input. Values may contain
// spaces: everything after the key is the value.
func replCommand(s *store.Store, ops *observability.Collector, line string) {
	parts := strings.SplitN(line, " ", 3)
	cmd := parts[0]

	switch cmd {
	case "get":
		if len(parts) < 2 {
			fmt.Println("usage: get <key>")
			return
		}
		ent, ok := s.Get(parts[1])
		if !ok {
			fmt.Printf("key %q doesn't exist\n", parts[1])
			return
		}
		fmt.Printf("%s (version %d, updated %d)\n", ent.Value, ent.Version, ent.Time)

	case "set", "update":
		if len(parts) < 3 {
			fmt.Printf("usage: %s <key> <value>\n", cmd)
			return
		}
		var (
			res store.WriteResult
			err error
		)
		if cmd == "set" {
			res, err = s.Insert(parts[1], parts[2])
		} else {
			res, err = s.Update(parts[1], parts[2])
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(res)

	case "del":
		if len(parts) < 2 {
			fmt.Println("usage: del <key>")
			return
		}
		fmt.Println(s.Delete(parts[1]))

	case "metrics":
		printMetrics(os.Stdout, s, ops)

	case "flush":
		if err := s.Flush(); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("flushed")

	case "help":
		fmt.Println("commands: get, set, update, del, metrics, flush, quit")

	default:
		fmt.Printf("unknown command: %s (try help)\n", cmd)
	}
}

func printMetrics(w io.Writer, s *store.Store, ops *observability.Collector) {
	m := s.Metrics()
	fmt.Fprintf(w, "size:        %d\n", m.Size)
	fmt.Fprintf(w, "last_update: %d\n", m.LastUpdate)
	fmt.Fprintf(w, "last_write:  %d\n", m.LastWrite)
	if m.WriteError != "" {
		fmt.Fprintf(w, "write_error: %s\n", m.WriteError)
	}

	for _, sum := range ops.Summaries() {
		fmt.Fprintf(w, "op %-6s count=%d mean=%s max=%s\n", sum.Op, sum.Count, sum.Mean, sum.Max)
	}
}
