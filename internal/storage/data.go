package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/pokequest/pkg/actor"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/storage"
)

// Static data lives in one JSON or YAML file per record under dataDir/<kind>/.
// The filename (without extension) is the record ID and overrides any ID in
// the file. YAML records use the same field names as JSON.

// recordExts are tried in order when reading a record.
var recordExts = []string{".json", ".yaml", ".yml"}

const (
	speciesDir  = "species"
	itemsDir    = "items"
	trainersDir = "trainers"
)

// Species operations (filesystem-backed)

func (r *RedisStorage) ListSpecies(ctx context.Context) ([]string, error) {
	return r.listIDs(speciesDir)
}

func (r *RedisStorage) GetSpecies(ctx context.Context, speciesID string) (*battle.Species, error) {
	var s battle.Species
	if err := r.readRecord(speciesDir, speciesID, &s); err != nil {
		return nil, err
	}
	s.ID = speciesID
	return &s, nil
}

// Item operations (filesystem-backed)

func (r *RedisStorage) ListItems(ctx context.Context) ([]string, error) {
	return r.listIDs(itemsDir)
}

func (r *RedisStorage) GetItem(ctx context.Context, itemID string) (*battle.InventoryItem, error) {
	var item battle.InventoryItem
	if err := r.readRecord(itemsDir, itemID, &item); err != nil {
		return nil, err
	}
	item.ID = itemID
	item.Quantity = 0
	return &item, nil
}

// Trainer operations (filesystem-backed, returns TrainerSpec only)

func (r *RedisStorage) GetTrainerSpec(ctx context.Context, trainerID string) (*actor.TrainerSpec, error) {
	var spec actor.TrainerSpec
	if err := r.readRecord(trainersDir, trainerID, &spec); err != nil {
		return nil, err
	}
	spec.ID = trainerID
	return &spec, nil
}

func (r *RedisStorage) ListTrainers(ctx context.Context) ([]string, error) {
	return r.listIDs(trainersDir)
}

// readRecord decodes dataDir/kind/id.{json,yaml,yml} into v.
func (r *RedisStorage) readRecord(kind, id string, v any) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid %s id %q: %w", kind, id, storage.ErrNotFound)
	}

	for _, ext := range recordExts {
		path := filepath.Join(r.dataDir, kind, id+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
		}
		if err := DecodeRecord(path, data, v, false); err != nil {
			return fmt.Errorf("failed to parse %s from %s: %w", kind, path, err)
		}
		return nil
	}
	return fmt.Errorf("%s %q: %w", kind, id, storage.ErrNotFound)
}

// DecodeRecord parses a data file into v by its JSON field names. YAML
// (by .yaml or .yml extension) is converted to JSON first. Strict decoding
// rejects unknown fields.
func DecodeRecord(path string, data []byte, v any, strict bool) error {
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("YAML has no JSON form: %w", err)
		}
		data = converted
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	if strict {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(v)
}

func (r *RedisStorage) listIDs(kind string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dataDir, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s directory: %w", kind, err)
	}

	ids := []string{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && slices.Contains(recordExts, ext) {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}
