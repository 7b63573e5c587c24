package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/segalloc/segalloc/internal/config"
	"github.com/segalloc/segalloc/internal/heapprovider"
	"github.com/segalloc/segalloc/internal/segalloc"
)

func runReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	chunkSize := fs.Int("chunk-size", 4096, "heap growth increment in bytes")
	limit := fs.Int("limit", 256<<20, "maximum simulated heap size in bytes")

	if err := fs.Parse(args); err != nil {
		fatalf("parse flags: %v", err)
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: segalloc-bench replay [flags] <trace-file>")
		os.Exit(2)
	}

	f, err := os.Open(rest[0])
	if err != nil {
		fatalf("open trace: %v", err)
	}
	defer f.Close()

	a, err := segalloc.New(heapprovider.NewSimulated(*limit), config.WithChunkSize(*chunkSize))
	if err != nil {
		fatalf("construct allocator: %v", err)
	}

	live := map[string]int{}

	var (
		ops       int
		peakInUse uint64
		start     = time.Now()
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "a":
			id, size := fields[1], mustAtoi(fields[2])
			live[id] = a.Allocate(uint32(size))

		case "f":
			id := fields[1]
			a.Free(live[id])
			delete(live, id)

		case "r":
			id, size := fields[1], mustAtoi(fields[2])
			live[id] = a.Reallocate(live[id], uint32(size))

		default:
			logger.Printf("skipping malformed trace line: %q", line)

			continue
		}

		ops++

		if s := a.Stats(); s.BytesInUse > peakInUse {
			peakInUse = s.BytesInUse
		}
	}

	if err := scanner.Err(); err != nil {
		fatalf("read trace: %v", err)
	}

	elapsed := time.Since(start)
	stats := a.Stats()

	fragmentation := 0.0
	if stats.HeapSize > 0 {
		fragmentation = 1 - float64(peakInUse)/float64(stats.HeapSize)
	}

	fmt.Printf("ops=%d elapsed=%s ops/sec=%.0f peak_bytes_in_use=%d heap_size=%d fragmentation=%.4f\n",
		ops, elapsed, float64(ops)/elapsed.Seconds(), peakInUse, stats.HeapSize, fragmentation)
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fatalf("malformed integer %q: %v", s, err)
	}

	return n
}
