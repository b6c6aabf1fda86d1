// Package wordfreq builds word lists from the wordfreq frequency dataset.
package wordfreq

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// PyPIEndpoint is the package metadata URL for wordfreq.
var PyPIEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

type pypiFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Packagetype string `json:"packagetype"`
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []pypiFile `json:"urls"`
}

// DownloadLatestWheel fetches the latest wordfreq wheel into cacheDir.
// A wheel already present in the cache is reused.
func DownloadLatestWheel(ctx context.Context, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	resp, err := httpGet(ctx, PyPIEndpoint)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Wheel{}, fmt.Errorf("unexpected pypi status: %s", resp.Status)
	}

	var payload pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Wheel{}, fmt.Errorf("failed to decode pypi response: %w", err)
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}
	file, ok := pickWheel(payload.URLs)
	if !ok {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	destPath := filepath.Join(cacheDir, filepath.Base(file.Filename))
	wheel := Wheel{Version: payload.Info.Version, Path: destPath, Filename: file.Filename}
	if _, err := os.Stat(destPath); err == nil {
		wheel.Cached = true
		return wheel, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}

	if err := download(ctx, file.URL, destPath); err != nil {
		return Wheel{}, err
	}
	return wheel, nil
}

func download(ctx context.Context, url, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), "wordfreq-*.whl")
	if err != nil {
		return fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpGet(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected wheel status: %s", resp.Status)
	}
	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to move wheel into cache: %w", err)
	}
	return nil
}

func httpGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func pickWheel(files []pypiFile) (pypiFile, bool) {
	for _, f := range files {
		if f.Packagetype == "bdist_wheel" && strings.HasSuffix(f.Filename, "py3-none-any.whl") {
			return f, true
		}
	}
	for _, f := range files {
		if f.Packagetype == "bdist_wheel" {
			return f, true
		}
	}
	return pypiFile{}, false
}

// LanguageTypes maps language codes to available list types ("large", "small").
type LanguageTypes map[string]map[string]struct{}

// ListLanguageTypes returns available languages and list types in the wheel.
func ListLanguageTypes(wheelPath string) (LanguageTypes, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	langs := make(LanguageTypes)
	for _, file := range reader.File {
		lang, listType := parseLanguageAndType(file.Name)
		if lang == "" {
			continue
		}
		if _, ok := langs[lang]; !ok {
			langs[lang] = make(map[string]struct{})
		}
		langs[lang][listType] = struct{}{}
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("no languages found in wordfreq wheel")
	}
	return langs, nil
}

// Languages returns sorted language codes.
func (t LanguageTypes) Languages() []string {
	out := make([]string, 0, len(t))
	for lang := range t {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// SelectType picks desired for lang, falling back from "large" to "small".
func (t LanguageTypes) SelectType(lang, desired string) (string, bool) {
	available := t[strings.ToLower(lang)]
	if len(available) == 0 {
		return "", false
	}
	if _, ok := available[desired]; ok {
		return desired, true
	}
	if desired == "large" {
		if _, ok := available["small"]; ok {
			return "small", true
		}
	}
	return "", false
}

// parseLanguageAndType maps "wordfreq/data/large_en.msgpack.gz" to ("en", "large").
func parseLanguageAndType(name string) (string, string) {
	name = strings.ToLower(name)
	base, ok := strings.CutPrefix(name, "wordfreq/data/")
	if !ok {
		return "", ""
	}
	for _, suffix := range []string{".msgpack.gz", ".msgpack"} {
		if trimmed, found := strings.CutSuffix(base, suffix); found {
			base = trimmed
			break
		}
	}
	if strings.Contains(base, ".") {
		return "", ""
	}
	for _, listType := range []string{"large", "small"} {
		if lang, found := strings.CutPrefix(base, listType+"_"); found && lang != "" {
			return lang, listType
		}
	}
	return "", ""
}
