package iforest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes f to path as JSON, creating parent directories as needed.
func (f *Forest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	return nil
}

// Load reads a forest previously written by Save.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if err := f.check(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &f, nil
}

// check rejects forests that Score could not walk: missing trees, nodes
// with a single child and splits on features outside the feature list.
func (f *Forest) check() error {
	if len(f.Trees) == 0 {
		return errors.New("no trees")
	}
	if len(f.Features) == 0 {
		return errors.New("no feature list")
	}
	for i, root := range f.Trees {
		if root == nil {
			return fmt.Errorf("tree %d is empty", i)
		}
		if err := checkNode(root, len(f.Features)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func checkNode(n *Node, width int) error {
	if n.leaf() {
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return errors.New("split node with a single child")
	}
	if n.Feature < 0 || n.Feature >= width {
		return fmt.Errorf("split on feature %d, model has %d", n.Feature, width)
	}
	if err := checkNode(n.Left, width); err != nil {
		return err
	}
	return checkNode(n.Right, width)
}
