package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadRaw reads a UTF-8 JSON array of loosely-typed raw records.
// Individual records that cannot be decoded are skipped and counted
// in malformed; a malformed record is never fatal to the batch.
func LoadRaw(path string) (raws []RawRecord, malformed int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read corpus file: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("parse corpus file %s: %w", path, err)
	}

	raws = make([]RawRecord, 0, len(items))
	for _, item := range items {
		var raw RawRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			malformed++
			continue
		}
		raws = append(raws, raw)
	}
	return raws, malformed, nil
}

// SaveCheckpoint writes the normalized corpus as a JSON checkpoint
// that LoadCheckpoint reads back verbatim.
func SaveCheckpoint(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a corpus checkpoint written by SaveCheckpoint.
func LoadCheckpoint(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}
	return records, nil
}
