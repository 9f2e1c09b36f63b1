package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rw-repacker/internal/export"
	"rw-repacker/internal/txd"
)

func main() {
	format := flag.String("format", "png", "Output format: "+strings.Join(export.Formats, ", "))
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: txdconvert [-format png] file.txd outdir\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	src, outDir := flag.Arg(0), flag.Arg(1)

	set, err := txd.LoadFile(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, name := range set.Names() {
		tex := set[name]
		dst := filepath.Join(outDir, sanitize(name)+"."+*format)
		if err := export.WriteFile(dst, tex.Image()); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", name, err)
			errors++
			continue
		}
		fmt.Printf("OK  %s -> %s  (%dx%d)\n", name, dst, tex.Width, tex.Height)
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Printf("\nDone. %d textures written.\n", len(set))
}

// sanitize keeps raster names from escaping the output directory.
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
