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
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/builder"
	"dirpx.dev/tagfx/config"
)

// Reset to a clean snapshot using our test builder.
// This fully replaces builder, config, ext and rebuilds names/resolver.
// Pins are reset because we pass nil names/res. The previous snapshot is
// restored when the test ends.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	saved := st.Load()
	tb.Cleanup(func() { st.Store(saved) })
	SetAll(&cfg, ext, nil, nil, b)
}

// ---------------------- Test doubles (mocks) ----------------------

type mockNames struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]string
}

func newMockNames(id string) *mockNames {
	return &mockNames{id: id, data: make(map[reflect.Type]string)}
}

func (m *mockNames) Register(t reflect.Type, name string) error {
	m.mu.Lock()
	m.data[t] = name
	m.mu.Unlock()
	return nil
}
func (m *mockNames) Lookup(t reflect.Type) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.data[t]
	return n, ok
}
func (m *mockNames) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, n := range m.data {
		out = append(out, apis.Entry{Type: t, Name: n})
	}
	return out
}
func (m *mockNames) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockNames) Reset()     { m.mu.Lock(); m.data = make(map[reflect.Type]string); m.mu.Unlock() }

type mockResolver struct {
	id string
}

func (r *mockResolver) Resolve(_ any, cfg apis.Config) (string, error) {
	return r.id + ":" + strconv.FormatBool(cfg.QualifyNames) + ":" + strconv.Itoa(cfg.MaxDepth), nil
}

func (r *mockResolver) ResolveType(t reflect.Type, cfg apis.Config) (string, error) {
	s, _ := r.Resolve(nil, cfg)
	return s + ":" + t.String(), nil
}

type mockBuilder struct {
	mu              sync.Mutex
	lastCfg         apis.Config
	lastExt         any
	lastPrevNamesID string
	lastPrevResID   string
	namesCounter    int
	resCounter      int
}

func (b *mockBuilder) BuildNames(cfg apis.Config, prev apis.Names, ext any) apis.Names {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mn, ok := prev.(*mockNames); ok {
		b.lastPrevNamesID = mn.id
	}
	b.namesCounter++
	return newMockNames("names#" + strconv.Itoa(b.namesCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Names, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.namesCounter, b.resCounter
}

// ---------------------- Tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{QualifyNames: false, MaxDepth: 8}, nil)

	s1Names := Names()
	s1Res := Resolver()

	// change cfg -> both should rebuild (not pinned)
	SetConfig(apis.Config{QualifyNames: true, MaxDepth: 4})

	if Names() == s1Names {
		t.Fatalf("names were not rebuilt on SetConfig (unpinned)")
	}
	if Resolver() == s1Res {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg, prevNames, prevRes := b.lastCfg, b.lastPrevNamesID, b.lastPrevResID
	b.mu.Unlock()
	if gotCfg.MaxDepth != 4 || !gotCfg.QualifyNames {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if prevNames != "names#1" || prevRes != "res#1" {
		t.Fatalf("builder did not see previous layers: names=%q res=%q", prevNames, prevRes)
	}

	got, _ := Tag(struct{}{})
	if got != "res#2:true:4" {
		t.Fatalf("Tag used stale snapshot: %q", got)
	}
}

func TestSetNames_PinsNames_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	custom := newMockNames("custom")
	SetNames(custom)
	if !IsNamesPinned() {
		t.Fatalf("SetNames did not pin")
	}

	beforeRes := Resolver()
	SetConfig(apis.Config{QualifyNames: true, MaxDepth: 8})

	if Names() != custom {
		t.Fatalf("pinned names were rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	if !IsResolverPinned() {
		t.Fatalf("SetResolver did not pin")
	}

	namesBefore := Names()

	// Change cfg -> expect: names rebuilt (not pinned), resolver unchanged (pinned)
	SetConfig(apis.Config{QualifyNames: true, MaxDepth: 8})

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Names() == namesBefore {
		t.Fatalf("names were not rebuilt on SetConfig when resolver is pinned")
	}

	got, _ := TagType(reflect.TypeFor[int]())
	if got != "custom:true:8:int" {
		t.Fatalf("TagType did not use pinned resolver: %q", got)
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, apis.Config{MaxDepth: 8}, nil)

	// Pin resolver, leave names unpinned
	SetResolver(&mockResolver{id: "pinned"})
	namesBefore := Names()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	if Names() == namesBefore {
		t.Fatalf("names did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	if Builder() != b {
		t.Fatalf("builder not swapped")
	}
	if n, r := b.counters(); n != 1 || r != 0 {
		t.Fatalf("new builder counters = (%d, %d), want (1, 0)", n, r)
	}
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	if ec, ok := got.(extCfg); !ok || ec.X != 42 {
		t.Fatalf("builder did not receive ext properly: %#v", got)
	}
	if ec, ok := ExtAs[extCfg](); !ok || ec.X != 42 {
		t.Fatalf("ExtAs mismatch: %#v %v", ec, ok)
	}
	if _, ok := ExtAs[string](); ok {
		t.Fatalf("ExtAs[string] should not match")
	}

	// Pin both and ensure no rebuild on SetExt
	SetNames(Names())
	SetResolver(Resolver())
	nBefore, rBefore := b.counters()
	SetExt(extCfg{X: 7})
	nAfter, rAfter := b.counters()
	if nAfter != nBefore || rAfter != rBefore {
		t.Fatalf("SetExt should not rebuild when both layers are pinned")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	SetNames(Names())
	SetResolver(Resolver())

	n1 := Names()
	r1 := Resolver()
	SetConfig(apis.Config{QualifyNames: true, MaxDepth: 4})
	if Names() != n1 || Resolver() != r1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinNames()
	UnpinResolver()
	if IsNamesPinned() || IsResolverPinned() {
		t.Fatalf("unpin did not clear flags")
	}
	SetConfig(apis.Config{MaxDepth: 6})
	if Names() == n1 {
		t.Fatalf("names should rebuild after UnpinNames+SetConfig")
	}
	if Resolver() == r1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestSetAll_PinsProvidedLayers(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	n := newMockNames("given")
	cfg := apis.Config{MaxDepth: 3}
	SetAll(&cfg, "ext", n, nil, nil)

	if Names() != n || !IsNamesPinned() {
		t.Fatalf("SetAll did not pin provided names")
	}
	if IsResolverPinned() {
		t.Fatalf("SetAll pinned a resolver it built")
	}
	if Config().MaxDepth != 3 {
		t.Fatalf("SetAll did not apply cfg")
	}
	if ext, _ := ExtAs[string](); ext != "ext" {
		t.Fatalf("SetAll did not apply ext")
	}
	if Builder() != b {
		t.Fatalf("nil builder should keep the current one")
	}
}

func TestSetNilIsNoop(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxDepth: 8}, nil)

	n, r := Names(), Resolver()
	SetNames(nil)
	SetResolver(nil)
	SetBuilder(nil)
	if Names() != n || Resolver() != r || Builder() != b {
		t.Fatalf("nil setters changed the snapshot")
	}
}

func TestSetLogger(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	l := zap.NewExample()
	SetLogger(l)
	if Logger() != l {
		t.Fatalf("logger not set")
	}
	SetLogger(nil)
	if Logger() == nil {
		t.Fatalf("nil logger should become a no-op logger")
	}
}

func TestTag_Concurrent_With_SetConfig(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	type token struct{}
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got, err := Tag(token{}); err != nil || (got != "token" && got != "tagfx.token") {
					t.Errorf("Tag(token{}) = %q, %v", got, err)
					return
				}
				_, _ = TagType(reflect.TypeOf(&token{}))
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(apis.Config{
				QualifyNames: i%2 == 0,
				MaxDepth:     4 + (i % 5),
			})
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}
