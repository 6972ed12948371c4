// Package locks manages the image lock registry: manually-set exemptions
// that prevent automated mutation of specific recipes. A locked recipe is
// never rewritten, regardless of how severe its computed issues are.
package locks

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/glycora/imageaudit/pkg/errors"
	"github.com/google/uuid"
)

// registryFile is the on-disk shape of the lock registry.
type registryFile struct {
	LockedRecipes map[string]string `json:"locked_recipes"`
}

// Registry is an immutable-per-run snapshot of the lock registry. Locks
// added by another process after Load are not honored by the running pass.
type Registry struct {
	path   string
	locked map[string]string
}

// Load reads the lock registry from disk. A missing or unreadable file is
// an error: callers that mutate the store must fail closed rather than run
// unprotected.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLockRegistryMissingError(path, err)
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.NewLockRegistryMissingError(path, err)
	}
	if file.LockedRecipes == nil {
		file.LockedRecipes = map[string]string{}
	}

	return &Registry{path: path, locked: file.LockedRecipes}, nil
}

// Reason returns the lock reason for a recipe and whether it is locked.
func (r *Registry) Reason(id uuid.UUID) (string, bool) {
	reason, ok := r.locked[id.String()]
	return reason, ok
}

// Locked reports whether a recipe is locked.
func (r *Registry) Locked(id uuid.UUID) bool {
	_, ok := r.locked[id.String()]
	return ok
}

// Len returns the number of locked recipes.
func (r *Registry) Len() int {
	return len(r.locked)
}

// Lock records a lock for a recipe. The change is in-memory until Save.
func (r *Registry) Lock(id uuid.UUID, reason string) {
	r.locked[id.String()] = reason
}

// Save persists the registry back to its source file.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(registryFile{LockedRecipes: r.locked}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lock registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write lock registry %s: %w", r.path, err)
	}
	return nil
}
