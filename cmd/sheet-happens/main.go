// Package main provides the sheet-happens CLI: an Excel 2007+ to
// CSV/JSON/YAML converter.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	sheets "github.com/nuno-andre/sheet-happens"
	"github.com/nuno-andre/sheet-happens/output"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		asCSV      bool
		asJSON     bool
		asYAML     bool
		outDir     string
		noSanitize bool
	)

	rootCmd := &cobra.Command{
		Use:   "sheet-happens [input.xlsx]",
		Short: "Convert Excel 2007+ worksheets to CSV, JSON, and YAML",
		Long: `sheet-happens extracts every worksheet of an Excel 2007+ file and
saves it next to the input (or under --out) in the selected formats.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var formats []output.Format
			if asCSV {
				formats = append(formats, output.CSV)
			}
			if asJSON {
				formats = append(formats, output.JSON)
			}
			if asYAML {
				formats = append(formats, output.YAML)
			}
			if len(formats) == 0 {
				_ = cmd.Help()
				return errors.New("choose at least one output format")
			}
			return run(out, args[0], outDir, formats, !noSanitize)
		},
	}

	rootCmd.Flags().BoolVar(&asCSV, "csv", false, "Save each sheet as CSV")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Save each sheet as JSON records")
	rootCmd.Flags().BoolVar(&asYAML, "yaml", false, "Save each sheet as YAML records")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: input file's directory)")
	rootCmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "Keep cell whitespace and line breaks as-is")
	rootCmd.SetOut(out)
	rootCmd.SetErr(os.Stderr)

	return rootCmd
}

func run(out io.Writer, input, outDir string, formats []output.Format, sanitize bool) error {
	book, err := sheets.Open(input, &sheets.Options{Sanitize: sanitize})
	if err != nil {
		if errors.Is(err, sheets.ErrNotAnArchive) {
			return fmt.Errorf("%q is not an Excel 2007+ file", input)
		}
		return err
	}
	defer book.Close()

	worksheets, err := book.Sheets()
	if err != nil {
		return err
	}

	for _, sheet := range worksheets {
		for _, format := range formats {
			fmt.Fprintf(out, "saving %s as %s\n", sheet.Name(), format)
			if _, err := output.Save(sheet, input, outDir, format); err != nil {
				return err
			}
		}
	}
	return nil
}
