package main

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajack/xlgrid"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	sheet   string
	config  string
	out     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "xlgrid",
		Short: "Column operations on xlsx worksheets",
		Long: `Inspect and restructure the columns of an xlsx worksheet.

Commands:
  describe  Summarize columns, ranges, merges and broken references.
  insert    Insert blank columns, shifting cells, merges and formulas.
  delete    Delete columns; references into them become #REF!.
  autofit   Size columns to their contents.
  group     Set the outline level of a column span.
  validate  Report broken references, unparseable formulas and hidden values.

Mutating commands write to --out, or back to the input file.

Examples:
  xlgrid describe report.xlsx
  xlgrid insert report.xlsx --at C --count 2 --out shifted.xlsx
  xlgrid group report.xlsx --columns B:D --collapse`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			if g.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&g.sheet, "sheet", "", "Sheet to operate on (default: first sheet)")
	root.PersistentFlags().StringVar(&g.config, "config", "", "YAML file with worksheet options")
	root.PersistentFlags().StringVarP(&g.out, "out", "o", "", "Output file for mutating commands (default: overwrite input)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(
		newDescribeCmd(g),
		newInsertCmd(g),
		newDeleteCmd(g),
		newAutofitCmd(g),
		newGroupCmd(g),
		newValidateCmd(g),
	)
	return root
}

// open loads the selected sheet with options from --config. Invalidated
// references are logged as warnings by the worksheet itself.
func (g *globalFlags) open(path string) (*xlgrid.Worksheet, error) {
	var opts []xlgrid.Option
	if g.config != "" {
		cfg, err := xlgrid.LoadConfig(g.config)
		if err != nil {
			return nil, err
		}
		opts = cfg.Options()
		if !g.verbose {
			log.SetLevel(cfg.Level(log.GetLevel()))
		}
	}
	opts = append(opts, xlgrid.WithLogger(log.StandardLogger()))
	return xlgrid.OpenWorksheet(path, g.sheet, opts...)
}

// save writes ws to --out, or over the input file.
func (g *globalFlags) save(ws *xlgrid.Worksheet, input string) error {
	path := g.out
	if path == "" {
		path = input
	}
	if err := ws.SaveAs(path); err != nil {
		return err
	}
	log.WithField("file", path).Info("saved")
	return nil
}

// parseColumn accepts a column label ("C") or ordinal ("3").
func parseColumn(ws *xlgrid.Worksheet, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	return ws.ColumnNumber(s)
}

// parseColumns accepts "C" or a span "B:D".
func parseColumns(ws *xlgrid.Worksheet, s string) (first, last int, err error) {
	parts := strings.SplitN(s, ":", 2)
	first, err = parseColumn(ws, parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("columns %q: %w", s, err)
	}
	last = first
	if len(parts) == 2 {
		last, err = parseColumn(ws, parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("columns %q: %w", s, err)
		}
	}
	if first > last {
		first, last = last, first
	}
	return first, last, nil
}
