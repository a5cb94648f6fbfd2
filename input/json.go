package input

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"sort"
	"strconv"

	"github.com/mensio/brickstat/errors"
)

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

// ReadJSON decodes a layer from either a JSON array of objects or a
// GeoJSON FeatureCollection, whose feature properties are the records.
// Geometries are ignored. Fields are the union of all keys, sorted.
func ReadJSON(name string, r io.Reader) (Layer, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return Layer{}, err
	}

	var objects []map[string]interface{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fc featureCollection
		if err := json.Unmarshal(trimmed, &fc); err != nil {
			return Layer{}, errors.NewData("layer %q: %s", name, err)
		}
		if fc.Type != "FeatureCollection" {
			return Layer{}, errors.NewData("layer %q: expected a FeatureCollection, got %q", name, fc.Type)
		}
		for _, f := range fc.Features {
			objects = append(objects, f.Properties)
		}
	} else if err := json.Unmarshal(trimmed, &objects); err != nil {
		return Layer{}, errors.NewData("layer %q: %s", name, err)
	}

	l := Layer{Name: name}
	seen := make(map[string]struct{})
	for _, obj := range objects {
		rec := make(Record, len(obj))
		for k, v := range obj {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				l.Fields = append(l.Fields, k)
			}
			if s, ok := cell(v); ok {
				rec[k] = s
			}
		}
		l.Records = append(l.Records, rec)
	}
	sort.Strings(l.Fields)
	return l, nil
}

// cell renders a decoded JSON value as a record cell. null is absent.
func cell(v interface{}) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	b, _ := json.Marshal(v)
	return string(b), true
}
