package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dvloznov/finance-etl/internal/recordset"
)

// parseJSON reads a JSON array of flat objects. The column set and order
// come from the first object's keys; later objects may omit keys (null) but
// must not introduce new ones.
func parseJSON(data []byte, engine recordset.Engine) (recordset.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if !dec.More() {
		return nil, fmt.Errorf("source has no records")
	}

	// The first object is walked token by token so the column order
	// matches the input; encoding/json maps would lose it.
	columns, first, err := decodeFirstObject(dec)
	if err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	tab, err := recordset.New(engine, columns, 0)
	if err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := tab.Append(first); err != nil {
		return nil, err
	}

	known := make(map[string]int, len(columns))
	for i, c := range columns {
		known[c] = i
	}

	for dec.More() {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
		row := make([]recordset.Value, len(columns))
		for i := range row {
			row[i] = recordset.Null()
		}
		for k, raw := range obj {
			i, ok := known[k]
			if !ok {
				return nil, fmt.Errorf("record introduces unknown column %q", k)
			}
			v, err := jsonValue(raw)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", k, err)
			}
			row[i] = v
		}
		if err := tab.Append(row); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return tab, nil
}

func decodeFirstObject(dec *json.Decoder) (columns []string, row []recordset.Value, err error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("object key is %T, want string", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		if _, nested := valTok.(json.Delim); nested {
			return nil, nil, fmt.Errorf("column %q: nested values are not supported", key)
		}
		v, err := jsonValue(valTok)
		if err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", key, err)
		}
		columns = append(columns, key)
		row = append(row, v)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return columns, row, nil
}

func jsonValue(raw any) (recordset.Value, error) {
	switch v := raw.(type) {
	case nil:
		return recordset.Null(), nil
	case string:
		return inferValue(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return recordset.Value{}, fmt.Errorf("number %q: %w", v.String(), err)
		}
		return recordset.Num(f), nil
	case bool:
		return recordset.Str(strconv.FormatBool(v)), nil
	default:
		return recordset.Value{}, fmt.Errorf("nested values are not supported")
	}
}

func expectDelim(dec *json.Decoder, want rune) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || rune(d) != want {
		return fmt.Errorf("unexpected token %v, want %q", tok, want)
	}
	return nil
}
