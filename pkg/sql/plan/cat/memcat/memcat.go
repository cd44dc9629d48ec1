// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package memcat implements cat.Catalog over table definitions held in
// memory, typically loaded from a YAML file:
//
//	connector: tpch
//	tables:
//	  - name: orders
//	    columns: [a, b, c]
//	    indexes:
//	      - [a]
//	      - [b, c]
//
// Every table can be read through a full-table layout. Each index provides an
// additional layout that enforces constraints on its columns; constraints on
// other columns are reported as unenforced.
package memcat

import (
	"context"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan/cat"
	"github.com/cockroachdb/planir/pkg/sql/plan/handle"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
	"github.com/cockroachdb/planir/pkg/util/log"
	yaml "gopkg.in/yaml.v2"
)

// DefaultConnector is the connector id used when a definition names none.
const DefaultConnector = "memory"

// Definition is the YAML form of a catalog.
type Definition struct {
	Connector string            `yaml:"connector"`
	Tables    []TableDefinition `yaml:"tables"`
}

// TableDefinition is the YAML form of a table.
type TableDefinition struct {
	Name    string     `yaml:"name"`
	Columns []string   `yaml:"columns"`
	Indexes [][]string `yaml:"indexes"`
}

// Catalog is an immutable in-memory cat.Catalog.
type Catalog struct {
	connector string
	tables    map[string]*table
	byHandle  map[handle.TableHandle]*table
}

var _ cat.Catalog = (*Catalog)(nil)

type table struct {
	cat.Table
	indexes [][]handle.ColumnHandle
}

// New builds a Catalog from a definition.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		connector: def.Connector,
		tables:    make(map[string]*table, len(def.Tables)),
		byHandle:  make(map[handle.TableHandle]*table, len(def.Tables)),
	}
	if c.connector == "" {
		c.connector = DefaultConnector
	}
	for _, td := range def.Tables {
		if td.Name == "" {
			return nil, errors.New("table definition without a name")
		}
		if _, ok := c.tables[td.Name]; ok {
			return nil, errors.Newf("table %q is defined twice", td.Name)
		}
		t := &table{Table: cat.Table{
			Name:   td.Name,
			Handle: handle.MakeTable(c.connector, td.Name),
		}}
		for _, col := range td.Columns {
			if _, ok := t.Column(col); ok {
				return nil, errors.Newf("table %q: column %q is defined twice", td.Name, col)
			}
			t.Columns = append(t.Columns, cat.Column{
				Name:   col,
				Handle: handle.MakeColumn(c.connector, td.Name+"."+col),
			})
		}
		for _, idx := range td.Indexes {
			if len(idx) == 0 {
				return nil, errors.Newf("table %q: empty index", td.Name)
			}
			cols := make([]handle.ColumnHandle, len(idx))
			for i, name := range idx {
				col, ok := t.Column(name)
				if !ok {
					return nil, errors.Newf("table %q: index references unknown column %q", td.Name, name)
				}
				cols[i] = col.Handle
			}
			t.indexes = append(t.indexes, cols)
		}
		c.tables[td.Name] = t
		c.byHandle[t.Handle] = t
	}
	return c, nil
}

// Parse builds a Catalog from its YAML form.
func Parse(data []byte) (*Catalog, error) {
	var def Definition
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, errors.Wrap(err, "parsing catalog")
	}
	return New(def)
}

// Load builds a Catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %s", path)
	}
	return Parse(data)
}

// TableNames returns the names of the tables in the catalog, sorted.
func (c *Catalog) TableNames() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTable is part of the cat.Catalog interface.
func (c *Catalog) ResolveTable(_ context.Context, name string) (*cat.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, errors.Wrapf(cat.ErrTableNotFound, "%q", name)
	}
	return &t.Table, nil
}

// ResolveLayout is part of the cat.Catalog interface. It picks the index
// enforcing the largest number of constrained columns, preferring the index
// defined first on ties, and falls back to a full-table layout if no index
// has a constrained column.
func (c *Catalog) ResolveLayout(
	ctx context.Context, th handle.TableHandle, constraint tupledomain.TupleDomain,
) (cat.LayoutResult, error) {
	t, ok := c.byHandle[th]
	if !ok {
		return cat.LayoutResult{}, errors.Wrapf(cat.ErrTableNotFound, "%s", th)
	}
	if constraint.IsNone() {
		// No row qualifies; any layout is as good as another and the empty
		// constraint itself must still be applied.
		return cat.LayoutResult{Layout: c.fullLayout(t), Unenforced: constraint}, nil
	}

	best, bestCount := -1, 0
	for i, idx := range t.indexes {
		count := 0
		for _, col := range idx {
			if _, ok := constraint.Domain(col); ok {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	if best < 0 {
		log.VEventf(ctx, 2, "table %s: no index enforces %s, using full layout", th, constraint)
		return cat.LayoutResult{Layout: c.fullLayout(t), Unenforced: constraint}, nil
	}

	idx := t.indexes[best]
	unenforced := constraint.Filter(func(col handle.ColumnHandle) bool {
		for _, ic := range idx {
			if ic == col {
				return false
			}
		}
		return true
	})
	layout := c.indexLayout(t, idx)
	log.VEventf(ctx, 2, "table %s: chose layout %s for %s", th, layout, constraint)
	return cat.LayoutResult{Layout: layout, Unenforced: unenforced}, nil
}

func (c *Catalog) fullLayout(t *table) handle.TableLayoutHandle {
	return handle.MakeLayout(c.connector, t.Name)
}

func (c *Catalog) indexLayout(t *table, idx []handle.ColumnHandle) handle.TableLayoutHandle {
	names := make([]string, len(idx))
	for i, col := range idx {
		names[i] = strings.TrimPrefix(col.Payload, t.Name+".")
	}
	return handle.MakeLayout(c.connector, t.Name+"["+strings.Join(names, ",")+"]")
}
