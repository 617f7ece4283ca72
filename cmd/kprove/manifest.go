package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// manifestEntry records a proof id alongside the hash that names its saved
// CFG file, since the on-disk format keys files by hash(id) alone (spec.md
// §6) and the CLI still needs to print human-readable ids for `list`.
type manifestEntry struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

func manifestPath(dir string) string { return filepath.Join(dir, "manifest.json") }

func loadManifest(dir string) ([]manifestEntry, error) {
	data, err := os.ReadFile(manifestPath(dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kprove: read manifest: %w", err)
	}
	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("kprove: parse manifest: %w", err)
	}
	return entries, nil
}

func saveManifest(dir string, entries []manifestEntry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kprove: create save directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("kprove: encode manifest: %w", err)
	}
	return os.WriteFile(manifestPath(dir), data, 0o644)
}

// recordManifest upserts id's entry, keyed by its id (not its hash, which
// never changes for a given id and so never collides).
func recordManifest(dir, id string) error {
	entries, err := loadManifest(dir)
	if err != nil {
		return err
	}
	hash := proofHash(id)
	for i, e := range entries {
		if e.ID == id {
			entries[i].Hash = hash
			return saveManifest(dir, entries)
		}
	}
	entries = append(entries, manifestEntry{ID: id, Hash: hash})
	return saveManifest(dir, entries)
}

func removeManifestEntry(dir, id string) error {
	entries, err := loadManifest(dir)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return saveManifest(dir, kept)
}
