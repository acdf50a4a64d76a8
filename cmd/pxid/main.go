// pxid CLI - Command-line tool for prefixed ID generation and inspection
//
// Usage:
//   pxid generate [flags]       Generate prefixed IDs
//   pxid inspect <id>           Parse and inspect an ID
//   pxid validate <id>          Validate an ID
//   pxid bench                  Run performance benchmarks
//
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sxyafiq/pxid"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "generate", "gen", "g":
		cmdGenerate(os.Args[2:])
	case "inspect", "parse", "i", "p":
		cmdInspect(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "bench", "benchmark", "b":
		cmdBench(os.Args[2:])
	case "version", "--version":
		fmt.Printf("pxid CLI version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `pxid CLI - Prefixed, sortable, globally unique ID generator

Usage:
  pxid <command> [flags]

Commands:
  generate, gen, g      Generate prefixed IDs
  inspect, i            Parse and inspect an ID
  validate, val, v      Validate an ID
  bench, b              Run performance benchmarks
  version               Show version information
  help                  Show this help message

Examples:
  # Generate a single ID
  pxid generate --prefix acct

  # Generate 10 IDs as JSON
  pxid generate --prefix sess --count 10 --json

  # Inspect an ID
  pxid inspect acct_9m4e2mr0ui3e8a215n4g

  # Validate an ID
  pxid validate acct_9m4e2mr0ui3e8a215n4g

  # Run benchmarks
  pxid bench --duration 5s

For detailed help on a command:
  pxid <command> --help

`)
}

// ============================================================================
// Generate Command
// ============================================================================

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	prefix := fs.String("prefix", "", "Namespace prefix (at most 4 bytes; empty for bare tokens)")
	count := fs.Int("count", 1, "Number of IDs to generate")
	batch := fs.Bool("batch", false, "Use batch generation (single clock read)")
	jsonOutput := fs.Bool("json", false, "Output as JSON with full details")
	machine := fs.String("machine", "", "Machine id override as 6 hex digits (e.g. 60f486)")
	at := fs.String("at", "", "Mint IDs at this RFC3339 time instead of now")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pxid generate [flags]

Generate one or more prefixed IDs.

Flags:
  --prefix P        Namespace prefix, at most 4 bytes (default: none)
  --count N         Number of IDs to generate (default: 1)
  --batch           Batch generation, one clock read for all IDs
  --json            Output as JSON with decoded components
  --machine HEX     Machine id override, 6 hex digits
  --at TIME         RFC3339 timestamp for backfills

Examples:
  pxid generate --prefix acct
  pxid generate --prefix evt --count 1000 --batch
  pxid generate --prefix job --at 2020-03-14T15:09:26Z
`)
	}

	fs.Parse(args)

	cfg := pxid.DefaultConfig(*prefix)
	if *machine != "" {
		b, err := hex.DecodeString(*machine)
		if err != nil || len(b) != 3 {
			fmt.Fprintf(os.Stderr, "Error: --machine must be 6 hex digits, got %q\n", *machine)
			os.Exit(1)
		}
		cfg.MachineID = b
	}

	factory, err := pxid.NewWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating factory: %v\n", err)
		os.Exit(1)
	}

	var backfill time.Time
	if *at != "" {
		backfill, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --at must be RFC3339, got %q\n", *at)
			os.Exit(1)
		}
	}

	start := time.Now()
	var ids []pxid.ID
	switch {
	case !backfill.IsZero():
		ids = make([]pxid.ID, *count)
		for i := range ids {
			ids[i] = factory.GenerateAt(backfill)
		}
	case *batch:
		ids = factory.GenerateBatch(*count)
	default:
		ids = make([]pxid.ID, 0, *count)
		for i := 0; i < *count; i++ {
			ids = append(ids, factory.Generate())
		}
	}
	duration := time.Since(start)

	if *jsonOutput {
		outputJSON(ids, duration)
		return
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	if *count > 100 {
		rate := float64(*count) / duration.Seconds()
		fmt.Fprintf(os.Stderr, "\nGenerated %d IDs in %v (%.0f IDs/sec)\n", *count, duration, rate)
	}
}

func outputJSON(ids []pxid.ID, duration time.Duration) {
	type idInfo struct {
		ID        string    `json:"id"`
		Prefix    string    `json:"prefix"`
		Token     string    `json:"token"`
		Timestamp time.Time `json:"timestamp"`
		MachineID string    `json:"machine_id"`
		ProcessID uint16    `json:"process_id"`
		Counter   uint32    `json:"counter"`
	}

	type output struct {
		Count      int      `json:"count"`
		Duration   string   `json:"duration"`
		RatePerSec float64  `json:"rate_per_sec"`
		IDs        []idInfo `json:"ids"`
	}

	infos := make([]idInfo, len(ids))
	for i, id := range ids {
		machine := id.MachineID()
		infos[i] = idInfo{
			ID:        id.String(),
			Prefix:    id.Prefix(),
			Token:     id.Token(),
			Timestamp: id.Time().UTC(),
			MachineID: hex.EncodeToString(machine[:]),
			ProcessID: id.ProcessID(),
			Counter:   id.Counter(),
		}
	}

	out := output{
		Count:      len(ids),
		Duration:   duration.String(),
		RatePerSec: float64(len(ids)) / duration.Seconds(),
		IDs:        infos,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(out)
}

// ============================================================================
// Inspect Command
// ============================================================================

func cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: pxid inspect <id>\n")
		fmt.Fprintf(os.Stderr, "\nParse an ID and print its components.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pxid inspect acct_9m4e2mr0ui3e8a215n4g\n")
		fmt.Fprintf(os.Stderr, "  pxid inspect 9m4e2mr0ui3e8a215n4g\n")
		os.Exit(1)
	}

	id, err := pxid.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	machine := id.MachineID()

	fmt.Printf("ID: %s\n", id)
	fmt.Printf("\n")
	fmt.Printf("Components:\n")
	if id.Prefix() != "" {
		fmt.Printf("  Prefix:     %s\n", id.Prefix())
	} else {
		fmt.Printf("  Prefix:     (none)\n")
	}
	fmt.Printf("  Timestamp:  %s (%d s since epoch)\n", id.Time().UTC().Format(time.RFC3339), id.Timestamp())
	fmt.Printf("  Machine ID: %s\n", hex.EncodeToString(machine[:]))
	fmt.Printf("  Process ID: %d\n", id.ProcessID())
	fmt.Printf("  Counter:    %d\n", id.Counter())
	fmt.Printf("\n")
	fmt.Printf("Encodings:\n")
	fmt.Printf("  Text:       %s\n", id.String())
	fmt.Printf("  Token:      %s\n", id.Token())
	fmt.Printf("  Raw:        %s\n", hex.EncodeToString(id.Bytes()))
	fmt.Printf("\n")
	fmt.Printf("Age:          %v\n", id.Age().Round(time.Second))
}

// ============================================================================
// Validate Command
// ============================================================================

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: pxid validate <id>\n")
		fmt.Fprintf(os.Stderr, "\nValidate the structure of an ID.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pxid validate acct_9m4e2mr0ui3e8a215n4g\n")
		os.Exit(1)
	}

	idStr := args[0]
	id, err := pxid.Parse(idStr)
	if err != nil {
		fmt.Printf("INVALID: %s\n", idStr)

		switch {
		case errors.Is(err, pxid.ErrInvalidLength):
			fmt.Printf("Reason: token must be exactly %d characters\n", pxid.EncodedLen)
		case errors.Is(err, pxid.ErrInvalidCharacter):
			fmt.Printf("Reason: token holds characters outside 0-9 a-v\n")
		case errors.Is(err, pxid.ErrPrefixTooLong):
			fmt.Printf("Reason: prefix exceeds %d bytes\n", pxid.MaxPrefixLen)
		case errors.Is(err, pxid.ErrInvalidPrefix):
			fmt.Printf("Reason: prefix must be printable UTF-8 without %q\n", pxid.Separator)
		default:
			fmt.Printf("Reason: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("VALID: %s\n", id)
	fmt.Printf("\nComponents:\n")
	fmt.Printf("  Prefix:     %q\n", id.Prefix())
	fmt.Printf("  Timestamp:  %s\n", id.Time().UTC().Format(time.RFC3339))
	fmt.Printf("  Age:        %v\n", id.Age().Round(time.Second))
}

// ============================================================================
// Benchmark Command
// ============================================================================

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	duration := fs.Duration("duration", 3*time.Second, "Benchmark duration")
	prefix := fs.String("prefix", "test", "Prefix for generated IDs")
	batchSize := fs.Int("batch", 100, "Batch size for batch generation test")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pxid bench [flags]

Run performance benchmarks for ID generation.

Flags:
  --duration D      Benchmark duration (default: 3s)
  --prefix P        Prefix for generated IDs (default: test)
  --batch N         Batch size for batch test (default: 100)

Examples:
  pxid bench --duration 5s
  pxid bench --prefix acct --batch 1000
`)
	}

	fs.Parse(args)

	factory, err := pxid.New(*prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating factory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running benchmarks (duration: %v, prefix: %q)\n\n", *duration, *prefix)

	// Benchmark 1: Single ID generation
	fmt.Printf("1. Single ID Generation:\n")
	count := 0
	start := time.Now()
	deadline := start.Add(*duration)
	for time.Now().Before(deadline) {
		_ = factory.Generate()
		count++
	}
	elapsed := time.Since(start)
	fmt.Printf("   Generated:      %d IDs\n", count)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n\n",
		float64(count)/elapsed.Seconds(), float64(elapsed.Nanoseconds())/float64(count))

	// Benchmark 2: Batch generation
	fmt.Printf("2. Batch Generation (batch size: %d):\n", *batchSize)
	count = 0
	batches := 0
	start = time.Now()
	deadline = start.Add(*duration)
	for time.Now().Before(deadline) {
		count += len(factory.GenerateBatch(*batchSize))
		batches++
	}
	elapsed = time.Since(start)
	fmt.Printf("   Generated:      %d IDs in %d batches\n", count, batches)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n\n",
		float64(count)/elapsed.Seconds(), float64(elapsed.Nanoseconds())/float64(count))

	// Benchmark 3: Text round trip
	fmt.Printf("3. Text Round Trip (1000 operations):\n")
	testID := factory.Generate()
	testString := testID.String()

	ops := []struct {
		name string
		fn   func()
	}{
		{"String", func() { _ = testID.String() }},
		{"Token", func() { _ = testID.Token() }},
		{"Parse", func() { _, _ = pxid.Parse(testString) }},
		{"JSON", func() { _, _ = testID.MarshalJSON() }},
	}

	for _, op := range ops {
		start := time.Now()
		for i := 0; i < 1000; i++ {
			op.fn()
		}
		elapsed := time.Since(start)
		fmt.Printf("   %-8s %6.0f ns/op\n", op.name+":", float64(elapsed.Nanoseconds())/1000)
	}

	m := factory.GetMetrics()
	fmt.Printf("\nFactory metrics: %d generated, %d counter wraps\n", m.Generated, m.CounterWraps)
	fmt.Printf("Benchmark complete!\n")
}
