// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// Attr is one output column picked by --attrs.
type Attr struct {
	// The row key the value is read from.
	Key string `yaml:"key"`
	// Should this Attr be shown or only removed from the defaults?
	Include bool `yaml:"include"`
	// The key used in output. It is also the column title with text output.
	OutputKey string `yaml:"outputKey"`
	// Transformation spec applied to string values.
	TransformSpec string `yaml:"transformSpec"`
}

var lengthRe = regexp.MustCompile(`-?\d+`)

// Transform applies the case and length transformations of TransformSpec to
// a string value. Other values are returned as is.
//
//	l, L  lower case
//	u, U  upper case
//	n     keep the first n characters
//	-n    keep n characters, eliding the middle with ".."
//
// When a spec holds several of a kind, the last one wins, so an attr's own
// spec overrides a global one prepended to it.
func (a *Attr) Transform(value any) any {
	result, ok := value.(string)
	if !ok {
		if list, isList := value.([]string); isList && a.TransformSpec != "" {
			result = strings.Join(list, ",")
		} else {
			return value
		}
	}

	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	match := lengthRe.FindAllString(a.TransformSpec, -1)
	if len(match) == 0 {
		return result
	}

	l, _ := strconv.Atoi(match[len(match)-1])
	abs := l
	if abs < 0 {
		abs = -abs
	}
	runes := []rune(result)
	if len(runes) <= abs {
		return result
	}
	if l >= 0 {
		return string(runes[:l])
	}
	side := abs/2 - 1
	if side < 1 {
		return string(runes[:abs])
	}
	return string(runes[:side]) + ".." + string(runes[len(runes)-side:])
}

// AttrList is the parsed --attrs flag.
type AttrList []Attr

// Parse returns the AttrList for an --attrs value.
func Parse(value string) (AttrList, error) {
	var a AttrList
	if err := a.Set(value); err != nil {
		return nil, err
	}
	if err := a.SetGlobalTransformSpec(); err != nil {
		return nil, err
	}
	return a, nil
}

// String renders the list in the --attrs format.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != "*" {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses comma-separated "key[:output[:transform]]" specs into the list.
// A leading ! drops key from the output. The key * stands for every default
// column and its transform applies to all of them.
func (a *AttrList) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// A repeated key updates the existing entry.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform of the * attr, if any, to
// every attr in the list.
func (alist *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *alist {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *alist {
		if (*alist)[i].Key == "*" {
			continue
		}
		(*alist)[i].TransformSpec = spec + "," + (*alist)[i].TransformSpec
	}
	return nil
}

func (alist AttrList) wildcard() (Attr, bool) {
	for _, attr := range alist {
		if attr.Key == "*" {
			return attr, true
		}
	}
	return Attr{}, false
}

// Project picks, renames and transforms the columns of rows. An empty list
// keeps columns unchanged. Without a * attr only the included attrs are
// output, in list order; with one, the default columns come first and the
// list edits them. Keys that are not columns are logged and skipped. The
// returned rows are new maps.
func (alist AttrList) Project(rows []map[string]any, columns []string) ([]map[string]any, []string) {
	if len(alist) == 0 {
		return rows, columns
	}

	var selected []Attr
	if global, ok := alist.wildcard(); ok {
		for _, c := range columns {
			idx := slices.IndexFunc(alist, func(a Attr) bool { return a.Key == c })
			if idx < 0 {
				selected = append(selected, Attr{Key: c, Include: true, OutputKey: c, TransformSpec: global.TransformSpec})
				continue
			}
			selected = append(selected, alist[idx])
		}
	} else {
		selected = alist
	}

	var picked []Attr
	for _, attr := range selected {
		if attr.Key == "*" || !attr.Include {
			continue
		}
		if !slices.Contains(columns, attr.Key) {
			log.Warnf("unknown attr %q ignored; have %v", attr.Key, columns)
			continue
		}
		picked = append(picked, attr)
	}

	outColumns := make([]string, 0, len(picked))
	for _, attr := range picked {
		outColumns = append(outColumns, attr.OutputKey)
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		r := make(map[string]any, len(picked))
		for i := range picked {
			r[picked[i].OutputKey] = picked[i].Transform(row[picked[i].Key])
		}
		out = append(out, r)
	}
	return out, outColumns
}
