package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/gitcha"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

var (
	exportOut    string
	exportFormat string

	exportCmd = &cobra.Command{
		Use:   "export <user>",
		Short: "Export an account's items to JSON or XLSX",
		Long:  paragraph("\nWrite one account's vocabulary and sentences to a file: JSON for backup and re-import, XLSX for offline review in a spreadsheet."),
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(args[0])
		},
	}

	importCmd = &cobra.Command{
		Use:   "import <user> [file]",
		Short: "Replace an account's data from a JSON export",
		Long:  paragraph("\nRead a JSON export and replace the account's record with it, normalized field by field. Without a file argument, lists candidate JSON files under the working directory."),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return listImportCandidates()
			}
			return runImport(args[0], args[1])
		},
	}
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <user>.<format>)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or xlsx")
}

func runExport(name string) error {
	switch exportFormat {
	case "json", "xlsx":
	default:
		return fmt.Errorf("unknown format %q (valid: json, xlsx)", exportFormat)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	u, err := st.Find(name)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = name + "." + exportFormat
	}

	if exportFormat == "json" {
		var data []byte
		st.View(func(*store.Envelope) {
			data, err = json.MarshalIndent(u.Data, "", "  ")
		})
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		if err := os.WriteFile(out, append(data, '\n'), 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	} else {
		st.View(func(*store.Envelope) {
			err = writeWorkbook(out, u.Data)
		})
		if err != nil {
			return err
		}
	}

	fmt.Printf("Exported %q to %s\n", name, out)
	return nil
}

// writeWorkbook writes the record as an XLSX workbook with one sheet
// per item kind.
func writeWorkbook(out string, rec *vocab.Record) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	f.SetSheetName("Sheet1", "Vocabulary")
	f.NewSheet("Sentences")

	vocabHeader := []any{"Word", "Meaning", "Tags", "Level", "Last reviewed", "Needs work"}
	if err := f.SetSheetRow("Vocabulary", "A1", &vocabHeader); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	for i, it := range rec.Vocabulary {
		needsWork := ""
		if it.NeedsWork {
			needsWork = "yes"
		}
		row := []any{
			it.Word, it.Meaning, strings.Join(it.Tags, ", "),
			it.Level, formatReviewed(it.LastReviewedAt), needsWork,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Vocabulary", cell, &row); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}

	sentHeader := []any{"Sentence", "Romanization", "Meaning", "Tags", "Glosses", "Level", "Last reviewed"}
	if err := f.SetSheetRow("Sentences", "A1", &sentHeader); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	for i, it := range rec.Sentences {
		row := []any{
			it.Sentence, it.Romanization, it.Meaning,
			strings.Join(it.Tags, ", "), formatGlosses(it.VocabularyGlosses),
			it.Level, formatReviewed(it.LastReviewedAt),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Sentences", cell, &row); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}

	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func runImport(name, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse import: %w", err)
	}
	rec := vocab.Sanitize(raw)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	u, err := st.Find(name)
	if err != nil {
		return err
	}

	st.Update(func(*store.Envelope) {
		u.Data = rec
		u.Data.Touch(time.Now())
	})

	fmt.Printf("Imported %d words and %d sentences into %q\n",
		len(rec.Vocabulary), len(rec.Sentences), name)
	return nil
}

// listImportCandidates walks the working directory for JSON files,
// honoring .gitignore and skipping hidden directories.
func listImportCandidates() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("unable to read working directory: %w", err)
	}

	ch, err := gitcha.FindFilesExcept(cwd, []string{"*.json"}, []string{".*", "node_modules"})
	if err != nil {
		return fmt.Errorf("unable to search for files: %w", err)
	}

	var found int
	for res := range ch {
		rel, err := filepath.Rel(cwd, res.Path)
		if err != nil {
			rel = res.Path
		}
		fmt.Printf("%s  %s\n", rel, humanize.Time(res.Info.ModTime()))
		found++
	}

	if found == 0 {
		fmt.Println("No JSON files found here. Pass a path: echolingo import <user> <file>")
		return nil
	}
	fmt.Println("\nPick one and rerun: echolingo import <user> <file>")
	return nil
}

func formatReviewed(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatGlosses(pairs []vocab.VocabularyGloss) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Term+"="+p.Gloss)
	}
	return strings.Join(parts, "; ")
}
