// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const orderedDoc = `{
  "workflow_run": {
    "requested": {"descriptionHtml": "requested"},
    "completed": {"descriptionHtml": "completed"}
  },
  "check_run": {
    "rerequested": {"bodyParameters": [{"name": "action"}]},
    "created": {}
  },
  "ping": {}
}`

func TestFromDocument_PreservesOrder(t *testing.T) {
	ds, err := FromDocument(gjson.Parse(orderedDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"workflow_run", "check_run", "ping"}, ds.Names())
	assert.Equal(t, 3, ds.Len())

	wr, ok := ds.Category("workflow_run")
	require.True(t, ok)
	assert.Equal(t, "workflow_run", wr.Name())
	assert.Equal(t, []string{"requested", "completed"}, wr.ActionTypes())

	cr, ok := ds.Category("check_run")
	require.True(t, ok)
	assert.Equal(t, []string{"rerequested", "created"}, cr.ActionTypes())

	d, ok := cr.Action("rerequested")
	require.True(t, ok)
	params, ok := d.BodyParameters()
	require.True(t, ok)
	assert.Len(t, params, 1)
}

func TestFromDocument_EmptyCategoryIsPresent(t *testing.T) {
	ds, err := FromDocument(gjson.Parse(orderedDoc))
	require.NoError(t, err)

	ping, ok := ds.Category("ping")
	require.True(t, ok, "an empty category is still a category")
	assert.Equal(t, 0, ping.Len())
	assert.NotNil(t, ping.ActionTypes())
	assert.Empty(t, ping.ActionTypes())

	_, ok = ds.Category("nope")
	assert.False(t, ok)
}

func TestFromDocument_NoValue(t *testing.T) {
	tests := []struct {
		name string
		doc  gjson.Result
	}{
		{name: "missing", doc: gjson.Result{}},
		{name: "null", doc: gjson.Parse("null")},
		{name: "empty object", doc: gjson.Parse("{}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := FromDocument(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, 0, ds.Len())
			assert.Empty(t, ds.Categories())
		})
	}
}

func TestFromDocument_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{name: "array root", json: `[1,2]`, wantErr: "document root"},
		{name: "string category", json: `{"ping": "pong"}`, wantErr: `category "ping"`},
		{name: "number action", json: `{"ping": {"created": 1}}`, wantErr: `action "created"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDocument(gjson.Parse(tt.json))
			require.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromDocument_NullAction(t *testing.T) {
	ds, err := FromDocument(gjson.Parse(`{"ping": {"created": null}}`))
	require.NoError(t, err)

	c, _ := ds.Category("ping")
	d, ok := c.Action("created")
	require.True(t, ok)
	assert.NotNil(t, d)
	assert.Empty(t, d)
}

func TestFromDocument_DuplicateKeys(t *testing.T) {
	ds, err := FromDocument(gjson.Parse(`{"a": {"x": {"v": 1}}, "b": {}, "a": {"y": {"v": 2}}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ds.Names())
	a, _ := ds.Category("a")
	assert.Equal(t, []string{"y"}, a.ActionTypes())
}

func TestActionTypes_ReturnsCopy(t *testing.T) {
	ds, err := FromDocument(gjson.Parse(orderedDoc))
	require.NoError(t, err)

	wr, _ := ds.Category("workflow_run")
	types := wr.ActionTypes()
	types[0] = "mutated"
	assert.Equal(t, "requested", wr.ActionTypes()[0])
}

func TestMarshalJSON_DocumentOrder(t *testing.T) {
	ds, err := FromDocument(gjson.Parse(orderedDoc))
	require.NoError(t, err)

	out, err := json.Marshal(ds)
	require.NoError(t, err)

	// Re-parse with gjson, which iterates in document order.
	var got []string
	gjson.ParseBytes(out).ForEach(func(key, _ gjson.Result) bool {
		got = append(got, key.String())
		return true
	})
	assert.Equal(t, []string{"workflow_run", "check_run", "ping"}, got)
	assert.Equal(t, "completed", gjson.GetBytes(out, "workflow_run.completed.descriptionHtml").String())

	var actions []string
	gjson.GetBytes(out, "check_run").ForEach(func(key, _ gjson.Result) bool {
		actions = append(actions, key.String())
		return true
	})
	assert.Equal(t, []string{"rerequested", "created"}, actions)
}

func TestMarshalJSON_Empty(t *testing.T) {
	out, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}
