// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package webhooks

import "github.com/staranto/whctlgo/internal/dataset"

// InitialWebhook is one entry of the initial listing: a category, all of its
// action types, and the detail of the first action type with nested child
// parameter groups emptied.
type InitialWebhook struct {
	Name        string         `json:"name"`
	ActionTypes []string       `json:"actionTypes"`
	Data        dataset.Detail `json:"data"`
}

func initialWebhooks(ds *dataset.Dataset) []InitialWebhook {
	listing := make([]InitialWebhook, 0, ds.Len())

	for _, c := range ds.Categories() {
		actionTypes := c.ActionTypes()

		defaultAction := ""
		if len(actionTypes) > 0 {
			defaultAction = actionTypes[0]
		}

		data := dataset.Detail{}
		if defaultAction != "" {
			if d, ok := c.Action(defaultAction); ok {
				data = reduceDetail(d)
			}
		}

		listing = append(listing, InitialWebhook{
			Name:        c.Name(),
			ActionTypes: actionTypes,
			Data:        data,
		})
	}

	return listing
}

// reduceDetail returns a copy of d in which every body parameter that owns
// child parameter groups has them replaced by an empty list. Only the top
// level map, the bodyParameters list and the rewritten parameters are copied;
// everything else is shared with d, which is never modified.
func reduceDetail(d dataset.Detail) dataset.Detail {
	out := make(dataset.Detail, len(d))
	for k, v := range d {
		out[k] = v
	}

	params, ok := d.BodyParameters()
	if !ok {
		return out
	}

	reduced := make([]any, len(params))
	for i, p := range params {
		param, isObj := p.(map[string]any)
		if !isObj || param[dataset.ChildParamsGroupsKey] == nil {
			reduced[i] = p
			continue
		}

		cp := make(map[string]any, len(param))
		for k, v := range param {
			cp[k] = v
		}
		cp[dataset.ChildParamsGroupsKey] = []any{}
		reduced[i] = cp
	}
	out[dataset.BodyParametersKey] = reduced

	return out
}
