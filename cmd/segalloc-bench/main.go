// Command segalloc-bench is a demo and benchmark harness for the segalloc
// allocator core: it replays allocation traces against a single allocator
// instance, or stresses many independent instances concurrently. It is
// ambient plumbing around the core, not a grading or correctness harness —
// see replay.go and stress.go for what each subcommand measures.
package main

import (
	"fmt"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "segalloc-bench: ", log.LstdFlags)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "replay":
		runReplay(args)
	case "stress":
		runStress(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", sub)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `segalloc-bench — allocator demo and benchmark CLI

Usage:
  segalloc-bench replay <trace-file>   replay a line-oriented allocation trace
  segalloc-bench stress <n>            run n independent allocators concurrently

Trace line formats for replay:
  a <id> <size>        allocate <size> bytes, remember the result as <id>
  f <id>                free the block previously allocated as <id>
  r <id> <new-size>     reallocate <id> to <new-size>, keeping the name <id>`)
}

func fatalf(format string, args ...interface{}) {
	logger.Printf(format, args...)
	os.Exit(1)
}
