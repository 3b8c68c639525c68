// Command generate-golden writes the golden aggregates checked by the
// aggregator regression tests. The expected values come from the math/big
// oracle over generator.Sequence, never from the strategies under test.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/agbru/digestagg/internal/generator"
)

type goldenCase struct {
	Count     int    `toml:"count"`
	Aggregate string `toml:"aggregate"`
}

type goldenFile struct {
	Gamma string       `toml:"gamma"`
	Cases []goldenCase `toml:"case"`
}

func main() {
	out := flag.String("out", "internal/aggregator/testdata/golden.toml", "Destination file.")
	counts := flag.String("counts", "0,1,2,3,64,1000", "Comma-separated digest counts.")
	flag.Parse()

	ns, err := parseCounts(*counts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeGolden(f, buildGolden(ns)); err != nil {
		f.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d golden cases to %s\n", len(ns), *out)
}

func parseCounts(s string) ([]int, error) {
	var ns []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid count %q", field)
		}
		ns = append(ns, n)
	}
	if len(ns) == 0 {
		return nil, fmt.Errorf("no counts given")
	}
	return ns, nil
}

func buildGolden(counts []int) goldenFile {
	g := goldenFile{Gamma: fmt.Sprintf("%#x", generator.SequenceGamma)}
	for _, n := range counts {
		g.Cases = append(g.Cases, goldenCase{
			Count:     n,
			Aggregate: generator.Expected(generator.Sequence(n)).String(),
		})
	}
	return g
}

func writeGolden(w io.Writer, g goldenFile) error {
	if _, err := io.WriteString(w, "# Code generated by generate-golden. DO NOT EDIT.\n\n"); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(g)
}
