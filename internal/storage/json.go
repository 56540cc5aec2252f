package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"profitScope/internal/model"
)

// JSONSink writes each ranking as a pretty-printed JSON object to a file in
// the output directory, preserving descending value order.
type JSONSink struct {
	dir string
	mu  sync.Mutex
}

func NewJSONSink(dir string) *JSONSink {
	return &JSONSink{dir: dir}
}

// WriteRanking writes the ranking to <contract>.json, prefixed with the
// mode when it is not the default profit view. The write is atomic via a
// temp file rename.
func (s *JSONSink) WriteRanking(_ context.Context, ranking model.Ranking) error {
	if s.dir != "" && s.dir != "." {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	data, err := encodeRanking(ranking)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, FileName(ranking))
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write ranking tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename ranking: %w", err)
	}
	return nil
}

// FileName returns the output file name for a ranking.
func FileName(ranking model.Ranking) string {
	if ranking.Mode == model.ModeProfit {
		return ranking.Contract + ".json"
	}
	return fmt.Sprintf("%s_%s.json", ranking.Mode, ranking.Contract)
}

// encodeRanking builds an ordered JSON object by hand: encoding/json sorts
// map keys, which would destroy the ranking order.
func encodeRanking(ranking model.Ranking) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, entry := range ranking.Entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")

		key, err := json.Marshal(entry.Address)
		if err != nil {
			return nil, fmt.Errorf("marshal address: %w", err)
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal value: %w", err)
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	if len(ranking.Entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
