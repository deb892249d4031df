package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajack/xlgrid"
)

func newDescribeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE",
		Short: "Summarize the columns of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(args[0])
			if err != nil {
				return err
			}
			defer ws.Close()
			fmt.Fprint(cmd.OutOrStdout(), ws.Describe())
			return nil
		},
	}
}

func newInsertCmd(g *globalFlags) *cobra.Command {
	var (
		at    string
		count int
		after bool
	)
	cmd := &cobra.Command{
		Use:   "insert FILE",
		Short: "Insert blank columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(args[0])
			if err != nil {
				return err
			}
			defer ws.Close()
			n, err := parseColumn(ws, at)
			if err != nil {
				return err
			}
			col, err := ws.Column(n)
			if err != nil {
				return err
			}
			if after {
				_, err = col.InsertColumnsAfter(count)
			} else {
				_, err = col.InsertColumnsBefore(count)
			}
			if err != nil {
				return err
			}
			return g.save(ws, args[0])
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Column label or number to insert at")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of columns")
	cmd.Flags().BoolVar(&after, "after", false, "Insert after --at instead of before it")
	cmd.MarkFlagRequired("at")
	return cmd
}

func newDeleteCmd(g *globalFlags) *cobra.Command {
	var (
		at    string
		count int
	)
	cmd := &cobra.Command{
		Use:   "delete FILE",
		Short: "Delete columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(args[0])
			if err != nil {
				return err
			}
			defer ws.Close()
			n, err := parseColumn(ws, at)
			if err != nil {
				return err
			}
			if err := ws.DeleteColumns(n, count); err != nil {
				return err
			}
			return g.save(ws, args[0])
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "First column to delete")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of columns")
	cmd.MarkFlagRequired("at")
	return cmd
}

func newAutofitCmd(g *globalFlags) *cobra.Command {
	var (
		columns    string
		start, end int
	)
	cmd := &cobra.Command{
		Use:   "autofit FILE",
		Short: "Size columns to their contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(args[0])
			if err != nil {
				return err
			}
			defer ws.Close()
			first, last := 1, ws.ColumnCount()
			if columns != "" {
				if first, last, err = parseColumns(ws, columns); err != nil {
					return err
				}
			}
			for n := first; n <= last; n++ {
				col, err := ws.Column(n)
				if err != nil {
					return err
				}
				if end > 0 {
					err = col.AdjustToContentsRange(start, end)
				} else {
					err = col.AdjustToContentsFrom(start)
				}
				if err != nil {
					return err
				}
				log.WithField("column", col.ColumnLetter()).Debugf("width %.2f", col.Width())
			}
			return g.save(ws, args[0])
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "Column span such as B:D (default: all used columns)")
	cmd.Flags().IntVar(&start, "start", 1, "First row to measure")
	cmd.Flags().IntVar(&end, "end", 0, "Last row to measure (default: last row)")
	return cmd
}

func newGroupCmd(g *globalFlags) *cobra.Command {
	var (
		columns  string
		level    int
		collapse bool
		ungroup  bool
	)
	cmd := &cobra.Command{
		Use:   "group FILE",
		Short: "Group, collapse or ungroup a column span",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(args[0])
			if err != nil {
				return err
			}
			defer ws.Close()
			first, last, err := parseColumns(ws, columns)
			if err != nil {
				return err
			}
			for n := first; n <= last; n++ {
				col, err := ws.Column(n)
				if err != nil {
					return err
				}
				switch {
				case ungroup:
					col.UngroupFromAll()
				case level > 0:
					err = col.GroupLevelCollapse(level, collapse)
				default:
					err = col.GroupCollapse(collapse)
				}
				if err != nil {
					return fmt.Errorf("column %s: %w", col.ColumnLetter(), err)
				}
			}
			return g.save(ws, args[0])
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "Column span such as B:D")
	cmd.Flags().IntVar(&level, "level", 0, "Set this outline level instead of adding one")
	cmd.Flags().BoolVar(&collapse, "collapse", false, "Collapse the group")
	cmd.Flags().BoolVar(&ungroup, "ungroup", false, "Remove the span from every group")
	cmd.MarkFlagRequired("columns")
	return cmd
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Report broken references and other damage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := g.open(args[0])
			if err != nil {
				return err
			}
			defer ws.Close()
			errs := 0
			for _, issue := range ws.Validate() {
				fmt.Fprintln(cmd.OutOrStdout(), issue)
				if issue.Severity == xlgrid.SeverityError {
					errs++
				}
			}
			if errs > 0 {
				return fmt.Errorf("%s: %d error(s)", args[0], errs)
			}
			return nil
		},
	}
}
