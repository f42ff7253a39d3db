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

// Package collector gathers registration records submitted at program
// initialization.
//
// Packages submit records from init():
//
//	collector.MustSubmit(collector.Record{ ... })
//
// Records are plain data; the per-interface registries drain them once on
// first use. The binary must import the registering package for its
// records to exist.
package collector

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNilInterface is returned when a record names no interface.
	ErrNilInterface = errors.New("tagfx(collector): nil interface type")
	// ErrNilType is returned when a record names no concrete type.
	ErrNilType = errors.New("tagfx(collector): nil concrete type")
	// ErrEmptyTag is returned when a record carries an empty tag.
	ErrEmptyTag = errors.New("tagfx(collector): empty tag")
)

// Record is one pending (interface, tag, type) registration.
type Record struct {
	// Interface is the interface type the record registers under.
	Interface reflect.Type
	// Type is the concrete implementer.
	Type reflect.Type
	// Tag is the already derived tag.
	Tag string
	// Decode is the decode func for Type, typed for Interface
	// (a registry.DecodeFunc[I]). The collector never calls it.
	Decode any
}

func (r Record) validate() error {
	switch {
	case r.Interface == nil:
		return ErrNilInterface
	case r.Type == nil:
		return ErrNilType
	case r.Tag == "":
		return fmt.Errorf("%w (type %s)", ErrEmptyTag, r.Type)
	}
	return nil
}

// Collector is an append-only list of records, safe for concurrent use.
type Collector struct {
	mu   sync.RWMutex
	recs []Record
}

// New returns an empty collector.
func New() *Collector { return &Collector{} }

// Submit appends r.
func (c *Collector) Submit(r Record) error {
	if err := r.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append(c.recs, r)
	return nil
}

// MustSubmit is like Submit but panics on error.
func (c *Collector) MustSubmit(r Record) {
	if err := c.Submit(r); err != nil {
		panic(err)
	}
}

// All returns every record in submission order.
func (c *Collector) All() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.recs))
	copy(out, c.recs)
	return out
}

// For returns the records of one interface in submission order.
func (c *Collector) For(iface reflect.Type) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Record
	for _, r := range c.recs {
		if r.Interface == iface {
			out = append(out, r)
		}
	}
	return out
}

// Interfaces returns the distinct interfaces with records, in first
// submission order.
func (c *Collector) Interfaces() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[reflect.Type]bool{}
	var out []reflect.Type
	for _, r := range c.recs {
		if !seen[r.Interface] {
			seen[r.Interface] = true
			out = append(out, r.Interface)
		}
	}
	return out
}

// Len returns the number of records.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.recs)
}

// Default is the process-wide collector used by the package-level helpers.
var Default = New()

// Submit appends r to Default.
func Submit(r Record) error { return Default.Submit(r) }

// MustSubmit is like Submit but panics on error.
func MustSubmit(r Record) { Default.MustSubmit(r) }

// All returns every record in Default.
func All() []Record { return Default.All() }

// For returns the records of one interface in Default.
func For(iface reflect.Type) []Record { return Default.For(iface) }
