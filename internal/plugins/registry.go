// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/api2spec/plugopts/pkg/types"
)

// DuplicateNameError is returned when two plugin directories of one tree
// resolve to the same display name.
type DuplicateNameError struct {
	Name        string
	Directories []string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("plugin name %q is declared by more than one directory: %v", e.Name, e.Directories)
}

// Registry collects the plugin records of one tree. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[string]types.PluginRecord
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]types.PluginRecord),
	}
}

// Register adds a record under its display name.
// It returns a *DuplicateNameError if the name is already registered.
func (r *Registry) Register(record types.PluginRecord) error {
	if record.Name == "" {
		return fmt.Errorf("plugin in %q has an empty name", record.DirectoryName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.records[record.Name]; exists {
		dirs := []string{existing.DirectoryName, record.DirectoryName}
		sort.Strings(dirs)
		return &DuplicateNameError{Name: record.Name, Directories: dirs}
	}

	r.records[record.Name] = record
	return nil
}

// Count returns the number of registered records.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// Mapping returns a copy of the registered records.
func (r *Registry) Mapping() types.PluginMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mapping := make(types.PluginMapping, len(r.records))
	for name, record := range r.records {
		mapping[name] = record
	}
	return mapping
}
