// mapconv converts a .map tile grid (one row per line, comma-separated
// two-digit tile codes) into the tilemap block of a level YAML file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/l1jgo/arena/internal/level"
	"gopkg.in/yaml.v3"
)

func main() {
	asset := flag.String("asset", "tilemap-image", "texture id of the tile sheet")
	tileSize := flag.Int("tile-size", 32, "tile side in source pixels")
	scale := flag.Float64("scale", 2, "tile scale in the world")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mapconv [flags] <jungle.map> <output.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	inFile, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer inFile.Close()

	tm, err := convert(inFile, *asset, *tileSize, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	out, err := os.Create(flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := write(out, flag.Arg(0), tm); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	w, h := tm.Size()
	fmt.Printf("Wrote %d rows (%dx%d px) to %s\n", len(tm.Rows), w, h, flag.Arg(1))
}

// convert reads map rows and validates them as a tilemap.
func convert(r io.Reader, asset string, tileSize int, scale float64) (*level.Tilemap, error) {
	tm := &level.Tilemap{Asset: asset, TileSize: tileSize, Scale: scale}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, len(buf))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Strip spaces and a trailing comma some editors leave behind.
		line = strings.TrimSuffix(strings.ReplaceAll(line, " ", ""), ",")
		tm.Rows = append(tm.Rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(tm.Rows) == 0 {
		return nil, fmt.Errorf("no tile rows")
	}
	if _, err := tm.Grid(); err != nil {
		return nil, err
	}
	return tm, nil
}

func write(w io.Writer, source string, tm *level.Tilemap) error {
	fmt.Fprintf(w, "# Tilemap, auto-generated from %s (%d rows)\n", source, len(tm.Rows))
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Tilemap *level.Tilemap `yaml:"tilemap"`
	}{tm}); err != nil {
		return err
	}
	return enc.Close()
}
