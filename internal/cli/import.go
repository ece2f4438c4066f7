package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/almanac/internal/seed"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// importEntry is one buffer to store. Data is the document for the key,
// validated and encoded in Format.
type importEntry struct {
	Key    string `json:"key" toml:"key"`
	Locale string `json:"locale" toml:"locale"`
	Format string `json:"format" toml:"format"`
	Data   any    `json:"data" toml:"data"`
}

// importFile is the layout of a TOML import: a list of [[entry]] tables.
type importFile struct {
	Entries []importEntry `toml:"entry"`
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.jsonl|file.toml>",
		Short: "Import calendar data into the store",
		Long: `Import reads entries of the form {key, locale, format, data} and stores
each one, replacing any buffer already held for the same key and locale.

JSONL files hold one entry per line. TOML files hold [[entry]] tables.

Example:
  almanac import eras.toml
  almanac import week.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0])
		},
	}
}

func (a *app) runImport(cmd *cobra.Command, path string) error {
	entries, err := readImportFile(path)
	if err != nil {
		return err
	}

	// Encode everything before touching the store so a bad entry imports
	// nothing.
	records := make([]types.BufferRecord, 0, len(entries))
	for i, e := range entries {
		rec, err := e.record()
		if err != nil {
			return userError(fmt.Errorf("entry %d (%s): %w", i+1, e.Key, err))
		}
		records = append(records, rec)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	if err := store.PutAll(records); err != nil {
		return classify(err)
	}

	if a.flags.jsonMode {
		return printJSON(cmd, map[string]any{"imported": len(records)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", len(records))
	return nil
}

func (e importEntry) record() (types.BufferRecord, error) {
	format, err := types.ParseBufferFormat(e.Format)
	if err != nil {
		return types.BufferRecord{}, err
	}
	loc, err := types.ParseLocale(e.Locale)
	if err != nil {
		return types.BufferRecord{}, err
	}
	key, data, err := seed.Encode(e.Key, format, e.Data)
	if err != nil {
		return types.BufferRecord{}, err
	}
	if key.Metadata().Singleton && !loc.IsRoot() {
		return types.BufferRecord{}, types.ErrExtraneousLocale.WithKey(key).WithContext(loc.String())
	}
	return types.BufferRecord{Key: key, Locale: loc, Format: format, Bytes: data}, nil
}

// readImportFile decodes path according to its extension.
func readImportFile(path string) ([]importEntry, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var f importFile
		if _, err := toml.DecodeFile(path, &f); err != nil {
			if os.IsNotExist(err) {
				return nil, userError(err)
			}
			return nil, userError(fmt.Errorf("parse %s: %w", path, err))
		}
		return f.Entries, nil
	case ".jsonl":
		return readJSONLEntries(path)
	default:
		return nil, userError(fmt.Errorf("unsupported import file %q: want .jsonl or .toml", path))
	}
}

func readJSONLEntries(path string) ([]importEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, userError(err)
	}
	defer f.Close()

	var entries []importEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e importEntry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, userError(fmt.Errorf("%s:%d: %w", path, line, err))
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, sysError(fmt.Errorf("read %s: %w", path, err))
	}
	return entries, nil
}
