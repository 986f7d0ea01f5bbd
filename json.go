// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON encodes m as a JSON object whose members appear in bucket
// order. String keys are used as is, integer and boolean keys are
// written in decimal or as true/false, and a nil key as null. HTML
// characters are not escaped.
func (m *Map[K, E]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ke := range m.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := jsonKey(ke.Key)
		if err != nil {
			return nil, err
		}
		if err := encodeJSON(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSON(&buf, ke.Elem); err != nil {
			return nil, fmt.Errorf("value of key %s: %w", Repr(ke.Key), err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func jsonKey(key any) (string, error) {
	switch k := key.(type) {
	case nil:
		return "null", nil
	case string:
		return k, nil
	case Unicode:
		return string(k), nil
	case bool:
		return strconv.FormatBool(k), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(k), nil
	case float32:
		return strconv.FormatFloat(float64(k), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("json: unsupported key type %T", key)
}
