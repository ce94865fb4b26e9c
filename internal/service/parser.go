package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jjenkins/legreview/internal/model"
)

// ErrInvalidDataset is returned for dataset content that cannot yield records
var ErrInvalidDataset = errors.New("invalid dataset")

// placeholder fills publication parts that could not be derived
const placeholder = "—"

// publicationSeparator splits "number - ص page - date" references
const publicationSeparator = " - "

// pagePrefix marks the page part of a publication reference
const pagePrefix = "ص "

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Recognized keys, in lookup order. The first key present wins.
var (
	nameKeys        = []string{"Leg_Name", "اسم القانون"}
	numberKeys      = []string{"Leg_Number", "الرقم"}
	yearKeys        = []string{"Year", "السنة"}
	publicationKeys = []string{"Publication", "الجريدة الرسمية"}
	linkKeys        = []string{"Link", "رابط"}

	gazetteNumberKeys = []string{"Gazette_Number", "رقم الجريدة"}
	gazettePageKeys   = []string{"Gazette_Page", "الصفحة"}
	gazetteDateKeys   = []string{"Gazette_Date", "تاريخ الجريدة"}
)

// Amending legislation keys in composite files, tried in order until one is non-empty
var amendingKeys = []string{"Replaced_By", "ModifiedLeg"}

// DatasetParser turns dataset file content into records
type DatasetParser struct{}

// NewDatasetParser creates a new DatasetParser
func NewDatasetParser() *DatasetParser {
	return &DatasetParser{}
}

// Parse decodes a JSON array of objects into records using the given variant.
// It fails on anything but a non-empty array of objects that all carry a
// record name key; it never returns partial results.
func (p *DatasetParser) Parse(content []byte, variant model.Variant) ([]model.Record, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()

	var raw []json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON list: %v", ErrInvalidDataset, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidDataset)
	}

	records := make([]model.Record, 0, len(raw))
	for i, msg := range raw {
		item, err := decodeItem(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidDataset, i, err)
		}

		var record model.Record
		switch variant {
		case model.VariantComposite:
			record, err = compositeRecord(item)
		case model.VariantSplit:
			record, err = splitRecord(item)
		default:
			return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidDataset, variant)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidDataset, i, err)
		}

		records = append(records, record)
	}

	return records, nil
}

type item map[string]any

func decodeItem(msg json.RawMessage) (item, error) {
	decoder := json.NewDecoder(bytes.NewReader(msg))
	decoder.UseNumber()

	var it item
	if err := decoder.Decode(&it); err != nil || it == nil {
		return nil, fmt.Errorf("not an object")
	}
	return it, nil
}

// lookup returns the value of the first key present in the item
func (it item) lookup(keys ...string) (string, bool, error) {
	for _, key := range keys {
		v, ok := it[key]
		if !ok {
			continue
		}
		s, err := stringify(v)
		if err != nil {
			return "", true, fmt.Errorf("key %q: %w", key, err)
		}
		return s, true, nil
	}
	return "", false, nil
}

// common reads the fields both variants share
func (it item) common() (model.Record, error) {
	var r model.Record

	name, ok, err := it.lookup(nameKeys...)
	if err != nil {
		return r, err
	}
	if !ok {
		return r, fmt.Errorf("missing required key %q", nameKeys[0])
	}
	r.Name = name

	fields := []struct {
		dst  *string
		keys []string
	}{
		{&r.Number, numberKeys},
		{&r.Year, yearKeys},
		{&r.Publication, publicationKeys},
		{&r.Link, linkKeys},
	}
	for _, f := range fields {
		if *f.dst, _, err = it.lookup(f.keys...); err != nil {
			return r, err
		}
	}

	return r, nil
}

func compositeRecord(it item) (model.Record, error) {
	r, err := it.common()
	if err != nil {
		return r, err
	}

	for _, key := range amendingKeys {
		value, _, err := it.lookup(key)
		if err != nil {
			return r, err
		}
		if value != "" {
			r.AmendingLeg = value
			break
		}
	}

	r.GazetteNumber, r.GazettePage, r.GazetteDate = ParsePublication(r.Publication)
	return r, nil
}

func splitRecord(it item) (model.Record, error) {
	r, err := it.common()
	if err != nil {
		return r, err
	}

	fields := []struct {
		dst  *string
		keys []string
	}{
		{&r.GazetteNumber, gazetteNumberKeys},
		{&r.GazettePage, gazettePageKeys},
		{&r.GazetteDate, gazetteDateKeys},
	}
	for _, f := range fields {
		if *f.dst, _, err = it.lookup(f.keys...); err != nil {
			return r, err
		}
	}

	return r, nil
}

// ParsePublication splits a "number - ص page - date" reference into its parts.
// Two parts leave the date as a placeholder; fewer leave all three as placeholders.
func ParsePublication(value string) (number, page, date string) {
	parts := strings.Split(value, publicationSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) >= 3:
		return parts[0], strings.ReplaceAll(parts[1], pagePrefix, ""), parts[2]
	case len(parts) == 2:
		return parts[0], strings.ReplaceAll(parts[1], pagePrefix, ""), placeholder
	default:
		return placeholder, placeholder, placeholder
	}
}

// stringify renders a JSON scalar as a trimmed string; null becomes ""
func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(t), nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
