package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

type options struct {
	format      string
	context     bool
	selectNone  bool
	concurrency int
	chunkSize   int
	configFile  string
	verbose     bool
}

// fileOutline is the printed result for one input file.
type fileOutline struct {
	File     string          `json:"file" yaml:"file"`
	Title    string          `json:"title" yaml:"title"`
	Format   string          `json:"format" yaml:"format"`
	Strategy string          `json:"strategy" yaml:"strategy"`
	Counts   doctree.Counts  `json:"counts" yaml:"counts"`
	Stats    doctree.Stats   `json:"stats" yaml:"stats"`
	Sections []*doctree.Node `json:"sections" yaml:"sections"`
	Context  string          `json:"context,omitempty" yaml:"context,omitempty"`
	Chunks   []chunker.Chunk `json:"chunks,omitempty" yaml:"chunks,omitempty"`

	tree *doctree.Tree
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "outline [files...]",
		Short: "Infer the section outline of documents",
		Long: `outline reads TXT, Markdown, CSV, JSON, HTML, PDF and DOCX files and
prints the section tree it infers for each one. Headings are found from a
table of contents when present, then from PDF font sizes, document markup,
or line patterns.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "o", "text", "output format: text, json or yaml")
	f.BoolVar(&opts.context, "context", false, "include the assembled context of selected sections")
	f.BoolVar(&opts.selectNone, "select-none", false, "start with every section deselected")
	f.IntVar(&opts.chunkSize, "chunk-size", 0, "also split selected sections into chunks of about this many tokens")
	f.IntVarP(&opts.concurrency, "concurrency", "c", 4, "files processed in parallel")
	f.StringVar(&opts.configFile, "config", "", "YAML config file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log extraction details to stderr")
	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, files []string, opts options) error {
	switch opts.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(opts.configFile); err != nil {
			return err
		}
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	popts := cfg.ParserOptions()
	results := make([]fileOutline, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			oopts := cfg.OutlineOptions(log.With("file", path))
			if opts.selectNone {
				oopts.DefaultSelected = false
			}
			out, err := outlineFile(path, popts, oopts)
			if err != nil {
				return err
			}
			if opts.context {
				out.Context = doctree.Collect(out.tree)
			}
			if opts.chunkSize > 0 {
				ccfg := cfg.ChunkerConfig()
				ccfg.ChunkSize = opts.chunkSize
				out.Chunks = chunker.ChunkTree(out.tree, ccfg)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return render(stdout, opts.format, results)
}

func outlineFile(path string, popts parser.Options, oopts outline.Options) (fileOutline, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileOutline{}, err
	}
	defer f.Close()

	out, err := pipeline.Outline(f, path, popts, oopts)
	if err != nil {
		return fileOutline{}, err
	}
	tree := out.Result.Tree
	nodes := tree.Nodes()
	if nodes == nil {
		nodes = []*doctree.Node{}
	}
	return fileOutline{
		File:     path,
		Title:    out.Source.Title,
		Format:   string(out.Source.Format),
		Strategy: string(out.Result.Strategy),
		Counts:   doctree.CountSelected(tree),
		Stats:    doctree.ContentStats(tree, false),
		Sections: nodes,
		tree:     tree,
	}, nil
}
