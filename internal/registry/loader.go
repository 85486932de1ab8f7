package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ct2go/pkg/types"
)

// LoadDir scans a directory for converted model directories and builds a
// registry from their names. A subdirectory counts as a model when it holds
// the converted binary (model.bin) next to its config.json. ID is the
// directory name; Path is the absolute directory path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(abs, e.Name())
		if !isModelDir(p) {
			continue
		}
		models = append(models, types.Model{
			ID:   e.Name(),
			Name: e.Name(),
			Path: p,
			Kind: detectKind(p),
		})
	}
	return models, nil
}

func isModelDir(dir string) bool {
	for _, f := range []string{"model.bin", "config.json"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			return false
		}
	}
	return true
}

// modelMeta is the subset of a converted model's config.json the scanner
// cares about.
type modelMeta struct {
	Spec string `json:"spec"`
}

// detectKind decides which runner a model directory needs. The converter
// records the model spec in config.json; directory naming is the fallback
// for models converted before that field existed.
func detectKind(dir string) string {
	if b, err := os.ReadFile(filepath.Join(dir, "config.json")); err == nil {
		var meta modelMeta
		if json.Unmarshal(b, &meta) == nil {
			switch {
			case strings.HasPrefix(meta.Spec, "WhisperSpec"):
				return types.KindWhisper
			case strings.HasPrefix(meta.Spec, "TransformerDecoderSpec"):
				return types.KindGenerator
			case meta.Spec != "":
				return types.KindTranslator
			}
		}
	}
	name := strings.ToLower(filepath.Base(dir))
	switch {
	case strings.Contains(name, "whisper"):
		return types.KindWhisper
	case strings.Contains(name, "gpt"), strings.Contains(name, "llama"),
		strings.Contains(name, "falcon"), strings.Contains(name, "lm"):
		return types.KindGenerator
	default:
		return types.KindTranslator
	}
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
