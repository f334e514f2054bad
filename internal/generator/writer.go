package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amtamaddon/analytics.simlane.ai/internal/dataset"
	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
)

// WriteDataset serialises the member table into members.csv and
// members.json under the provided directory.
func WriteDataset(members []domain.Member, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	csvPath := filepath.Join(dir, "members.csv")
	if err := writeCSV(csvPath, members); err != nil {
		return err
	}

	jsonPath := filepath.Join(dir, "members.json")
	if err := writeJSON(jsonPath, members); err != nil {
		return err
	}

	return nil
}

func writeCSV(path string, members []domain.Member) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := dataset.EncodeCSV(file, members); err != nil {
		return fmt.Errorf("encode csv for %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, members []domain.Member) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(members); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
