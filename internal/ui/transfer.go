package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"lockin/internal/backup"
)

func (a *App) exportCmd() *cobra.Command {
	var format string
	var output string
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and checklists",
		Long: `Export all tasks and checklists to a backup.

Formats: json (round-trippable), csv, tsv, txt (read-only snapshot).
With --clipboard the backup is copied to the system clipboard instead of
being written to a file or stdout.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			f, err := backup.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := a.tasks.ExportData(context.Background())
			if err != nil {
				return fmt.Errorf("collecting data: %w", err)
			}
			out, err := backup.Export(data, f)
			if err != nil {
				return fmt.Errorf("encoding backup: %w", err)
			}

			switch {
			case toClipboard:
				if err := clipboard.WriteAll(out); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Println(formatStats("Backup copied to clipboard."))
			case output != "":
				if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
					return fmt.Errorf("writing backup: %w", err)
				}
				fmt.Printf("%s %s\n", formatStats("Backup written to"), output)
			default:
				fmt.Print(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Backup format (json, csv, tsv, txt)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the backup to the clipboard")
	return cmd
}

func (a *App) importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks and checklists from a backup",
		Long: `Import a backup file.

The format is inferred from the file extension unless --format is given.
The file is fully validated before anything is written: a single bad record
rejects the whole import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(args[0]), ".")
			}
			f, err := backup.ParseFormat(format)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer file.Close()

			data, err := backup.Import(file, f)
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}
			if err := a.tasks.ImportData(context.Background(), data); err != nil {
				return fmt.Errorf("importing backup: %w", err)
			}
			fmt.Printf("%s %d task(s), %d checklist(s)\n",
				formatStats("Imported"), len(data.Tasks), len(data.Checklists))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Backup format (default: file extension)")
	return cmd
}
