// Command traintix parses one order-confirmation HTML document and writes
// the normalized ticket record as JSON.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/avigne/traintix/internal/extract"
	"github.com/avigne/traintix/internal/htmldoc"
	"github.com/avigne/traintix/internal/report"
	"github.com/avigne/traintix/internal/ticket"
)

func main() {
	output := flag.String("o", "", "write the ticket JSON to this file instead of stdout")
	reportPath := flag.String("report", "", "also write an HTML summary report to this file")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: traintix [-o out.json] [-report out.html] input.html")
		os.Exit(2)
	}
	input := flag.Arg(0)

	data, err := os.ReadFile(input)
	if err != nil {
		log.Error("read input", "error", err)
		os.Exit(1)
	}

	root, err := htmldoc.LoadTidy(data)
	if err != nil {
		log.Error("build markup tree", "error", err)
		os.Exit(1)
	}

	// A failed parse writes no output file at all.
	tk, err := extract.FromDocument(root)
	if err != nil {
		log.Error("an error occurred during parsing", "error", err, "input", input)
		os.Exit(1)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Error("create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := ticket.Encode(out, tk); err != nil {
		log.Error("write ticket", "error", err)
		os.Exit(1)
	}

	if *reportPath != "" {
		page, err := report.HTML(tk)
		if err != nil {
			log.Error("render report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*reportPath, page, 0o644); err != nil {
			log.Error("write report", "error", err)
			os.Exit(1)
		}
	}
}
