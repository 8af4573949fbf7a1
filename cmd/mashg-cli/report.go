package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bitfantasy/mashg/internal/hebdate"
	"github.com/bitfantasy/mashg/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportDir    string
	reportRemote bool
)

var reportCmd = &cobra.Command{
	Use:   "report <inspection-id>",
	Short: "Render an inspection report and save it as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid inspection id %q", args[0])
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if reportDir == "" {
			reportDir = cfg.Report.OutputDir
		}

		if reportRemote {
			path, err := c.DownloadReport(ctx, uint(id), reportDir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		}

		insp, err := c.GetInspection(ctx, uint(id))
		if err != nil {
			return err
		}
		if insp == nil {
			return fmt.Errorf("inspection %d not found", id)
		}

		opts := []report.Option{report.WithLogger(zapLogger)}
		if cfg.Report.FontPath != "" {
			opts = append(opts, report.WithUTF8Font(cfg.Report.FontName, cfg.Report.FontPath))
		}
		viewer := report.NewViewer(report.NewRenderer(opts...), nil, zapLogger)
		defer viewer.Close()

		if _, err := viewer.Open(ctx, insp); err != nil {
			// one retry before giving up
			if _, err = viewer.Retry(ctx); err != nil {
				return err
			}
		}
		preview, err := viewer.Artifact()
		if err != nil {
			return err
		}
		fmt.Printf("Rendered %s (%d bytes)\n", report.FileName(insp), len(preview))

		path, err := viewer.Download(ctx, reportDir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var hebdateCmd = &cobra.Command{
	Use:   "hebdate [YYYY-MM-DD]",
	Short: "Print the Hebrew date of a Gregorian date (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printHebrewDate(cmd.OutOrStdout(), args, time.Now())
	},
}

func printHebrewDate(w io.Writer, args []string, now time.Time) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w, hebdate.FromTime(now))
		return err
	}
	out, err := hebdate.Convert(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func init() {
	reportCmd.Flags().StringVarP(&reportDir, "dir", "d", "", "directory to write the PDF into (default report.output_dir)")
	reportCmd.Flags().BoolVar(&reportRemote, "remote", false, "download the server-rendered PDF instead of rendering locally")
}
