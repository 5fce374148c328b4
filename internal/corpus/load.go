package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrLoad marks a corpus file that could not be read or decoded.
var ErrLoad = errors.New("corpus load failed")

// Load reads a corpus file. Files ending in .yaml or .yml are decoded as a
// YAML list, everything else as a JSON array. Records without an id or title
// and repeated ids are dropped.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	papers, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}
	return NewIndex(clean(path, papers)), nil
}

// LoadOrEmpty is Load with failures logged and replaced by an empty corpus.
func LoadOrEmpty(path string) *Index {
	idx, err := Load(path)
	if err != nil {
		log.Printf("[corpus] %v; continuing with an empty corpus", err)
		return NewIndex(nil)
	}
	return idx
}

func decode(path string, data []byte) ([]Paper, error) {
	var papers []Paper
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &papers); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &papers); err != nil {
			return nil, err
		}
	}
	return papers, nil
}

func clean(path string, papers []Paper) []Paper {
	base := filepath.Dir(path)
	seen := make(map[string]bool, len(papers))
	out := make([]Paper, 0, len(papers))
	for i, p := range papers {
		p.ID = strings.TrimSpace(p.ID)
		switch {
		case p.ID == "":
			log.Printf("[corpus] record %d has no id; skipped", i)
			continue
		case strings.TrimSpace(p.Title) == "":
			log.Printf("[corpus] record %q has no title; skipped", p.ID)
			continue
		case seen[p.ID]:
			log.Printf("[corpus] duplicate id %q; later record skipped", p.ID)
			continue
		}
		seen[p.ID] = true
		if p.FullText == "" && p.PDFPath != "" {
			pdfPath := p.PDFPath
			if !filepath.IsAbs(pdfPath) {
				pdfPath = filepath.Join(base, pdfPath)
			}
			text, err := ExtractPDFText(pdfPath)
			if err != nil {
				log.Printf("[corpus] %s: %v", p.ID, err)
			} else {
				p.FullText = text
			}
		}
		out = append(out, p)
	}
	return out
}

// AppendToFile merges papers into the JSON corpus at path, replacing records
// with the same id and appending the rest. A missing file starts empty.
func AppendToFile(path string, papers ...Paper) error {
	var existing []Paper
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read corpus: %w", err)
	default:
		existing, err = decode(path, data)
		if err != nil {
			return fmt.Errorf("decode corpus %s: %w", path, err)
		}
	}

	positions := make(map[string]int, len(existing))
	for i, p := range existing {
		positions[p.ID] = i
	}
	for _, p := range papers {
		if pos, ok := positions[p.ID]; ok {
			existing[pos] = p
			continue
		}
		positions[p.ID] = len(existing)
		existing = append(existing, p)
	}

	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, err = yaml.Marshal(existing)
	default:
		out, err = json.MarshalIndent(existing, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create corpus dir: %w", err)
		}
	}
	return os.WriteFile(path, out, 0o644)
}
