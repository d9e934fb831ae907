package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/classify"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/record"
	"github.com/dgallion1/docstruct/internal/source"
	"github.com/dgallion1/docstruct/internal/structurer"
	"github.com/dgallion1/docstruct/internal/wordfreq"
)

var (
	extractIn       string
	extractOut      string
	extractStart    int
	extractEnd      int
	extractTermsOut string
	extractTopTerms int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract paragraph records from a document into a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := config.DefaultProfile()
		if profilePath != "" {
			var err error
			profile, err = config.LoadProfile(profilePath)
			if err != nil {
				return err
			}
		}
		headerRe, err := profile.HeaderRegexp()
		if err != nil {
			return err
		}

		f, err := os.Open(extractIn)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		doc, err := source.Open(f, filepath.Base(extractIn), source.Options{
			Classifier:    classify.NewStyleClassifier(profile.Thresholds()),
			HeaderPattern: headerRe,
		})
		if err != nil {
			return err
		}

		res, err := structurer.Extract(doc, extractStart, extractEnd, structurer.Options{
			HeaderPattern: headerRe,
			Logger:        log,
		})
		if err != nil {
			return err
		}

		out, err := os.Create(extractOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := record.WriteJSON(out, res.Records); err != nil {
			out.Close()
			return fmt.Errorf("write output: %w", err)
		}
		if err := out.Close(); err != nil {
			return err
		}

		log.Info("extraction complete",
			"in", extractIn,
			"out", extractOut,
			"pages", res.Stats.Pages,
			"records", res.Stats.Records,
			"footnotes_excluded", res.Stats.FootnotesExcluded,
			"tables_excluded", res.Stats.TablesExcluded,
		)
		for _, warn := range res.Warnings {
			log.Warn(warn)
		}

		if extractTermsOut != "" {
			if err := writeTerms(res, profile); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeTerms(res *structurer.Result, profile config.Profile) error {
	texts := make([]string, len(res.Records))
	for i, rec := range res.Records {
		texts[i] = rec.Text
	}
	freqs := wordfreq.Count(texts, wordfreq.Config{
		ExtraStopwords: profile.ExtraStopwords,
		MinTokenLen:    2,
	})
	top := wordfreq.Top(freqs, extractTopTerms)

	out, err := os.Create(extractTermsOut)
	if err != nil {
		return fmt.Errorf("create terms output: %w", err)
	}
	defer out.Close()
	for _, tc := range top {
		if _, err := fmt.Fprintf(out, "%s\t%d\n", tc.Term, tc.Count); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	extractCmd.Flags().StringVar(&extractIn, "in", "", "input document (.pdf, .md, .html)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output JSON file")
	extractCmd.Flags().IntVar(&extractStart, "start", 0, "first printed page, inclusive")
	extractCmd.Flags().IntVar(&extractEnd, "end", 0, "last printed page, inclusive")
	extractCmd.Flags().StringVar(&extractTermsOut, "terms-out", "", "also write a term-frequency table to this file")
	extractCmd.Flags().IntVar(&extractTopTerms, "top-terms", 150, "number of terms in the frequency table")
	extractCmd.MarkFlagRequired("in")
	extractCmd.MarkFlagRequired("out")
	extractCmd.MarkFlagRequired("start")
	extractCmd.MarkFlagRequired("end")
}
