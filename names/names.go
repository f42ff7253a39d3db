/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package names holds explicit type renames.
//
// A rename pins the tag of a Go type regardless of what the type says about
// itself or what reflection would derive. It is the Go counterpart of an
// explicit name override on a type declaration.
package names

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/config"
	uref "dirpx.dev/tagfx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("tagfx(names): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("tagfx(names): empty name provided")
	// ErrConflictingRename is returned when a renamed type is renamed again
	// to something else. A rename is permanent for the life of the table.
	ErrConflictingRename = errors.New("tagfx(names): conflicting type rename")
)

// New returns an empty rename table. Pointer chains are stripped up to
// cfg.MaxDepth, so *T, **T and T share one rename.
func New(cfg apis.Config) apis.Names {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	return &table{cfg: cfg}
}

// table maps a named type to its explicit tag. Lookups are lock-free;
// renames are rare and take mu.
type table struct {
	cfg   apis.Config
	mu    sync.Mutex
	tags  sync.Map // reflect.Type -> string
	count int
}

// Register renames t (after pointer stripping) to name. Renaming a type to
// the name it already has is a no-op; any other name is
// ErrConflictingRename, because tags already derived from the old name
// would go stale.
func (r *table) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	base, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	if done, err := r.existing(base, name); done {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if done, err := r.existing(base, name); done {
		return err
	}
	r.tags.Store(base, name)
	r.count++
	return nil
}

// existing reports whether base is already renamed, with the conflict
// error when that rename is not name.
func (r *table) existing(base reflect.Type, name string) (bool, error) {
	old, ok := r.tags.Load(base)
	switch {
	case !ok:
		return false, nil
	case old.(string) == name:
		return true, nil
	default:
		return true, fmt.Errorf("%w: %s is %q, not %q", ErrConflictingRename, base, old, name)
	}
}

// Lookup returns the explicit tag of t, if it was renamed.
func (r *table) Lookup(t reflect.Type) (name string, ok bool) {
	if t == nil {
		return "", false
	}
	base, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.tags.Load(base); ok {
		return v.(string), true
	}
	return "", false
}

// Entries lists every rename, in no particular order.
func (r *table) Entries() []apis.Entry {
	out := make([]apis.Entry, 0, r.Count())
	r.tags.Range(func(k, v any) bool {
		out = append(out, apis.Entry{Type: k.(reflect.Type), Name: v.(string)})
		return true
	})
	return out
}

// Count returns the number of renamed types.
func (r *table) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset forgets every rename.
func (r *table) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags.Clear()
	r.count = 0
}
