// Package query translates inbound request parameters into store queries.
//
// It implements the generic resource-access layer shared by every resource
// handler: equality/comparison filtering, field selection, sorting and
// pagination. Clients filter with plain field names and bracketed comparison
// suffixes (price[gte]=10) without seeing store-specific operator syntax;
// the single translation step here rewrites the comparison keywords into
// MongoDB operators.
package query

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrBadFilter indicates the reconstructed filter object was not valid JSON.
// Handlers surface it as a 400 before any store access.
var ErrBadFilter = errors.New("malformed filter parameters")

// Defaults for pagination.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// reserved parameters are stripped from the filter set before the remainder
// is treated as field filters.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// operatorWords rewrites bare comparison keywords appearing as object keys
// into MongoDB's native operator syntax ($gt, $gte, $lt, $lte, $in).
var operatorWords = regexp.MustCompile(`\b(gt|gte|lt|lte|in)\b`)

// bracketKey matches keys of the form field[op].
var bracketKey = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\]$`)

// Options is a validated store query derived from request parameters.
type Options struct {
	// Filter holds equality and comparison predicates in store syntax.
	Filter bson.M

	// Projection restricts results to the named fields, nil for all.
	Projection bson.D

	// Sort holds ordered sort keys. Defaults to newest first by creation time.
	Sort bson.D

	// Page is the 1-indexed page number.
	Page int

	// Limit is the page size.
	Limit int
}

// Skip returns the number of documents to skip for the current page.
func (o *Options) Skip() int64 {
	return int64(o.Page-1) * int64(o.Limit)
}

// PageRef describes one adjacent page in a pagination result.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries next/prev page descriptors, each present only when
// that page actually exists.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// IsZero reports whether neither adjacent page exists.
func (p Pagination) IsZero() bool {
	return p.Next == nil && p.Prev == nil
}

// Pagination computes the next/prev descriptors against a total document
// count. Next is present iff page*limit < total; prev iff page > 1.
func (o *Options) Pagination(total int64) Pagination {
	var p Pagination
	if int64(o.Page)*int64(o.Limit) < total {
		p.Next = &PageRef{Page: o.Page + 1, Limit: o.Limit}
	}
	if o.Page > 1 {
		p.Prev = &PageRef{Page: o.Page - 1, Limit: o.Limit}
	}
	return p
}

// Parse builds Options from raw request parameters.
//
// Control parameters (select, sort, page, limit) are stripped first; every
// remaining key is treated as a filter. A key of the form field[op] with op
// in {gt, gte, lt, lte, in} becomes a comparison predicate; in-values are
// split on commas. Numeric and boolean literals are coerced so comparisons
// behave numerically.
func Parse(values url.Values) (*Options, error) {
	opts := &Options{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  bson.D{{Key: "created_at", Value: -1}},
	}

	filter, err := buildFilter(values)
	if err != nil {
		return nil, err
	}
	opts.Filter = filter

	if sel := values.Get("select"); sel != "" {
		opts.Projection = parseSelect(sel)
	}

	if sort := values.Get("sort"); sort != "" {
		opts.Sort = parseSort(sort)
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	return opts, nil
}

// buildFilter reconstructs the filter object from the non-control
// parameters, rewrites comparison keywords into operator syntax through a
// JSON round-trip, and unmarshals the result into a store filter.
func buildFilter(values url.Values) (bson.M, error) {
	raw := make(map[string]interface{})

	for key, vals := range values {
		if reserved[key] {
			continue
		}
		if len(vals) == 0 {
			continue
		}

		field, op := splitBracket(key)
		var value interface{}
		if op == "in" || len(vals) > 1 {
			value = coerceList(vals)
		} else {
			value = coerce(vals[0])
		}

		if op == "" {
			raw[field] = value
			continue
		}
		nested, ok := raw[field].(map[string]interface{})
		if !ok {
			nested = make(map[string]interface{})
			raw[field] = nested
		}
		nested[op] = value
	}

	if len(raw) == 0 {
		return bson.M{}, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, ErrBadFilter
	}
	rewritten := operatorWords.ReplaceAllString(string(encoded), `$$$1`)

	filter := bson.M{}
	if err := json.Unmarshal([]byte(rewritten), &filter); err != nil {
		return nil, ErrBadFilter
	}
	return filter, nil
}

// splitBracket splits a field[op] key into its parts. Keys without a
// bracket suffix return an empty op.
func splitBracket(key string) (field, op string) {
	m := bracketKey.FindStringSubmatch(key)
	if m == nil {
		return key, ""
	}
	return m[1], m[2]
}

// coerce converts numeric and boolean literals so comparison predicates
// compare numbers rather than strings.
func coerce(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// coerceList splits comma-separated values and coerces each element.
func coerceList(vals []string) []interface{} {
	var out []interface{}
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			out = append(out, coerce(part))
		}
	}
	return out
}

// parseSelect turns a comma-separated field list into an include-only
// projection.
func parseSelect(sel string) bson.D {
	var proj bson.D
	for _, field := range strings.Split(sel, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		proj = append(proj, bson.E{Key: field, Value: 1})
	}
	return proj
}

// parseSort turns a comma-separated field list into ordered sort keys,
// honoring a leading "-" as the descending marker.
func parseSort(sort string) bson.D {
	var keys bson.D
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		keys = append(keys, bson.E{Key: field, Value: dir})
	}
	if len(keys) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return keys
}
