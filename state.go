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

package tagfx

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/builder"
	"dirpx.dev/tagfx/config"
)

// init initializes the global state.
func init() {
	s := &state{cfg: config.DefaultConfig(), log: zap.NewNop()}
	b := builder.New()
	s.names = b.BuildNames(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.names, nil, nil)
	s.bld = b
	st.Store(s)
}

var (
	// ErrNilNames is returned when a builder returns a nil rename table.
	ErrNilNames = errors.New("tagfx: builder returned nil rename table")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("tagfx: builder returned nil resolver")
)

// buildMu serializes writers (reconfigurations, swaps and registry
// materialization) so we never publish partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global snapshot.
// Immutable once published via st.Store; writers copy, modify and swap.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the opaque extension value handed to the builder.
	ext any
	// names is the global rename table.
	names apis.Names
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// log receives registration and encoding events.
	log *zap.Logger
	// pnames indicates whether names is pinned.
	pnames bool
	// pres indicates whether res is pinned.
	pres bool
}

// rebuild returns the rename table and resolver for (cfg, ext, b),
// keeping whatever old has pinned. Caller holds buildMu.
func rebuild(old *state, cfg apis.Config, ext any, b apis.Builder) (apis.Names, apis.Resolver) {
	n := old.names
	if !old.pnames {
		n = b.BuildNames(cfg, old.names, ext)
	}
	r := old.res
	if !old.pres {
		r = b.BuildResolver(cfg, n, old.res, ext)
	}
	if n == nil {
		panic(ErrNilNames)
	}
	if r == nil {
		panic(ErrNilResolver)
	}
	return n, r
}

// update publishes a copy of the current state modified by fn.
func update(fn func(old *state, next *state)) {
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	next := *old
	fn(old, &next)
	st.Store(&next)
}

// SetAll explicitly sets the configuration, extension, rename table,
// resolver and builder in one shot.
//
// Nil arguments leave the corresponding component unchanged (rename table
// and resolver are rebuilt and unpinned), except for ext which is always
// replaced. Non-nil names or res are pinned.
func SetAll(cfg *apis.Config, ext any, names apis.Names, res apis.Resolver, bld apis.Builder) {
	update(func(old, next *state) {
		if cfg != nil {
			next.cfg = *cfg
		}
		next.ext = ext
		if bld != nil {
			next.bld = bld
		}

		base := *old
		base.pnames, base.pres = false, false
		if names != nil {
			base.names, base.pnames = names, true
		}
		if res != nil {
			base.res, base.pres = res, true
		}
		next.names, next.res = rebuild(&base, next.cfg, next.ext, next.bld)
		next.pnames, next.pres = base.pnames, base.pres
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds the unpinned
// rename table and resolver.
//
// Registries already materialized keep the MaxKnownTags they were built with.
func SetConfig(cfg apis.Config) {
	update(func(old, next *state) {
		next.cfg = cfg
		next.names, next.res = rebuild(old, cfg, old.ext, old.bld)
	})
}

// Names returns the global rename table.
func Names() apis.Names {
	return st.Load().names
}

// SetNames sets and pins the global rename table and rebuilds the resolver
// over it if the resolver is not pinned.
func SetNames(n apis.Names) {
	if n == nil {
		return
	}
	update(func(old, next *state) {
		next.names, next.pnames = n, true
		if !old.pres {
			next.res = old.bld.BuildResolver(old.cfg, n, old.res, old.ext)
			if next.res == nil {
				panic(ErrNilResolver)
			}
		}
	})
}

// IsNamesPinned reports whether the global rename table is pinned.
func IsNamesPinned() bool {
	return st.Load().pnames
}

// UnpinNames lets the rename table be rebuilt again.
func UnpinNames() {
	update(func(_, next *state) { next.pnames = false })
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(_, next *state) { next.res, next.pres = res, true })
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// UnpinResolver lets the resolver be rebuilt again.
func UnpinResolver() {
	update(func(_, next *state) { next.pres = false })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder swaps the global builder and rebuilds the unpinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(old, next *state) {
		next.bld = b
		next.names, next.res = rebuild(old, old.cfg, old.ext, b)
	})
}

// SetExt replaces the extension value and rebuilds unpinned layers via the builder.
func SetExt[T any](ext T) {
	update(func(old, next *state) {
		next.ext = ext
		next.names, next.res = rebuild(old, old.cfg, ext, old.bld)
	})
}

// ExtAs returns the global extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return st.Load().log
}

// SetLogger sets the global logger; nil disables logging.
// Registries already materialized keep the logger they were built with.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	update(func(_, next *state) { next.log = l })
}
