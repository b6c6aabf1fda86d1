package wordfreq

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var attributionText = strings.Join([]string{
	"Word lists generated from the wordfreq dataset.",
	"Source: https://github.com/rspeer/wordfreq",
	"Data license: Creative Commons Attribution-ShareAlike 4.0 International (CC BY-SA 4.0).",
	"This word list is licensed CC BY-SA 4.0: https://creativecommons.org/licenses/by-sa/4.0/",
	"Changes were made: normalized to NFC, filtered to alphabetic words and truncated to the requested size.",
	"Please attribute wordfreq when redistributing derived word lists.",
	"",
}, "\n")

// WriteAttribution writes ATTRIBUTION.txt and LICENSE.txt for the wheel into outDir.
func WriteAttribution(wheelPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "ATTRIBUTION.txt"), []byte(attributionText), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	licenseText, err := readWheelLicense(wheelPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "LICENSE.txt"), licenseText, 0o644); err != nil {
		return fmt.Errorf("failed to write license: %w", err)
	}
	return nil
}

func readWheelLicense(wheelPath string) ([]byte, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel for license: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	for _, file := range reader.File {
		if !strings.Contains(strings.ToLower(file.Name), "license") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open license: %w", err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read license: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("license file not found in wheel")
}
