package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docstruct/internal/classify"
)

// Profile tunes extraction for a document family: classifier thresholds,
// heading depth, table caption prefixes, the running-header pattern (first
// capture group = printed page number) and extra stopwords for term
// frequency.
type Profile struct {
	TitleMinPt     float64  `yaml:"title_min_pt"`
	HeadingMinPt   float64  `yaml:"heading_min_pt"`
	FootnoteMaxPt  float64  `yaml:"footnote_max_pt"`
	MaxTitleLen    int      `yaml:"max_title_len"`
	HeadingDepth   int      `yaml:"heading_depth"`
	TablePrefixes  []string `yaml:"table_prefixes"`
	HeaderPattern  string   `yaml:"header_pattern"`
	ExtraStopwords []string `yaml:"extra_stopwords"`
}

// DefaultProfile matches the ECB guide typography the reference extraction
// was written against.
func DefaultProfile() Profile {
	th := classify.DefaultThresholds()
	return Profile{
		TitleMinPt:    th.TitleMinPt,
		HeadingMinPt:  th.HeadingMinPt,
		FootnoteMaxPt: th.FootnoteMaxPt,
		MaxTitleLen:   th.MaxTitleLen,
		HeadingDepth:  th.HeadingDepth,
		TablePrefixes: th.TablePrefixes,
	}
}

// LoadProfile reads a YAML extraction profile. Unset numeric fields fall
// back to the defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile: %w", err)
	}
	if p.TitleMinPt <= 0 || p.HeadingMinPt <= 0 || p.FootnoteMaxPt <= 0 {
		return p, fmt.Errorf("profile thresholds must be positive")
	}
	if p.HeadingMinPt >= p.TitleMinPt {
		return p, fmt.Errorf("heading_min_pt must be below title_min_pt")
	}
	return p, nil
}

// Thresholds converts the profile into classifier thresholds.
func (p Profile) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		TitleMinPt:    p.TitleMinPt,
		HeadingMinPt:  p.HeadingMinPt,
		FootnoteMaxPt: p.FootnoteMaxPt,
		MaxTitleLen:   p.MaxTitleLen,
		HeadingDepth:  p.HeadingDepth,
		TablePrefixes: p.TablePrefixes,
	}
}

// HeaderRegexp compiles the running-header pattern, nil when unset.
func (p Profile) HeaderRegexp() (*regexp.Regexp, error) {
	if p.HeaderPattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(p.HeaderPattern)
	if err != nil {
		return nil, fmt.Errorf("compile header_pattern: %w", err)
	}
	return re, nil
}
