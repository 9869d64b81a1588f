// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Keys of an action detail record that the summary view cares about.
const (
	BodyParametersKey    = "bodyParameters"
	ChildParamsGroupsKey = "childParamsGroups"
)

// ErrMalformed is returned when a schema document is not valid JSON or does
// not have the category -> action -> detail shape.
var ErrMalformed = errors.New("malformed webhook schema document")

// Detail is the decoded detail record of a single action type. A Detail
// handed out by a Dataset is shared with it and must be treated as read-only.
type Detail map[string]any

// BodyParameters returns the bodyParameters list of the detail. The second
// return value is false when the key is absent or is not a list.
func (d Detail) BodyParameters() ([]any, bool) {
	params, ok := d[BodyParametersKey].([]any)
	return params, ok
}

// Category is one webhook category (e.g. check_run) and the detail record of
// each of its action types.
type Category struct {
	name    string
	actions []string
	details map[string]Detail
}

// Name returns the category name.
func (c *Category) Name() string {
	return c.name
}

// ActionTypes returns the action type names in document order. The returned
// slice is a copy and never nil.
func (c *Category) ActionTypes() []string {
	out := make([]string, len(c.actions))
	copy(out, c.actions)
	return out
}

// Action returns the detail record for the named action type.
func (c *Category) Action(name string) (Detail, bool) {
	d, ok := c.details[name]
	return d, ok
}

// Len returns the number of action types.
func (c *Category) Len() int {
	return len(c.actions)
}

// MarshalJSON renders the category as an object keyed by action type, in
// document order.
func (c *Category) MarshalJSON() ([]byte, error) {
	return marshalOrdered(c.actions, func(k string) any { return c.details[k] })
}

// Dataset is the full webhook dataset of one schema version.
type Dataset struct {
	names      []string
	categories map[string]*Category
}

// Empty returns a dataset without categories.
func Empty() *Dataset {
	return &Dataset{categories: map[string]*Category{}}
}

// Len returns the number of categories.
func (d *Dataset) Len() int {
	return len(d.names)
}

// Names returns the category names in document order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Category returns the named category. The boolean is false when the dataset
// has no such category, which is different from a category without actions.
func (d *Dataset) Category(name string) (*Category, bool) {
	c, ok := d.categories[name]
	return c, ok
}

// Categories returns every category in document order.
func (d *Dataset) Categories() []*Category {
	out := make([]*Category, 0, len(d.names))
	for _, n := range d.names {
		out = append(out, d.categories[n])
	}
	return out
}

// MarshalJSON renders the dataset in document order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return marshalOrdered(d.names, func(k string) any { return d.categories[k] })
}

// FromDocument builds a Dataset from a parsed schema document. A missing or
// null document yields an empty dataset. Categories and actions must be JSON
// objects; a null action detail becomes an empty Detail.
//
// Duplicate keys keep the position of their first occurrence and the value of
// their last, which is how the documents are read elsewhere.
func FromDocument(doc gjson.Result) (*Dataset, error) {
	ds := Empty()
	if !doc.Exists() || doc.Type == gjson.Null {
		return ds, nil
	}
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object at the document root, got %s", ErrMalformed, doc.Type)
	}

	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		var c *Category
		if c, err = categoryFrom(key.String(), value); err != nil {
			return false
		}
		if _, seen := ds.categories[c.name]; !seen {
			ds.names = append(ds.names, c.name)
		}
		ds.categories[c.name] = c
		return true
	})
	if err != nil {
		return nil, err
	}

	return ds, nil
}

func categoryFrom(name string, value gjson.Result) (*Category, error) {
	c := &Category{name: name, details: map[string]Detail{}}
	if value.Type == gjson.Null {
		return c, nil
	}
	if !value.IsObject() {
		return nil, fmt.Errorf("%w: category %q: expected an object, got %s", ErrMalformed, name, value.Type)
	}

	var err error
	value.ForEach(func(key, action gjson.Result) bool {
		actionName := key.String()
		var d Detail
		switch {
		case action.Type == gjson.Null:
			d = Detail{}
		case action.IsObject():
			d = Detail(action.Value().(map[string]interface{}))
		default:
			err = fmt.Errorf("%w: category %q action %q: expected an object, got %s", ErrMalformed, name, actionName, action.Type)
			return false
		}
		if _, seen := c.details[actionName]; !seen {
			c.actions = append(c.actions, actionName)
		}
		c.details[actionName] = d
		return true
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func marshalOrdered(keys []string, value func(string) any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(value(k))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
