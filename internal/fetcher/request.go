package fetcher

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Mode selects the upstream query family.
type Mode string

const (
	ModeHeadlines  Mode = "headlines"
	ModeEverything Mode = "everything"
)

const (
	DefaultCount     = 20
	DefaultStaleness = time.Hour
)

var commonKeys = []string{"q", "language", "sources", "sortBy"}

// queryKeys lists the accepted query parameters per mode.
var queryKeys = map[Mode][]string{
	ModeHeadlines:  append([]string{"category", "country"}, commonKeys...),
	ModeEverything: append([]string{"searchIn", "domains", "excludeDomains", "from", "to"}, commonKeys...),
}

// ParseMode accepts a mode name in any case, surrounded by whitespace.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	_, ok := queryKeys[m]
	return m, ok
}

// RequestConfig is the immutable input of one fetch.
type RequestConfig struct {
	APIKey         string
	Mode           Mode
	Query          map[string]string
	Count          int
	ExcludeAuthors map[string]struct{}
	Staleness      time.Duration
}

// Normalize validates the config and returns a copy with the query reduced to
// the keys the mode accepts. Checks run credential, mode, query, in that order.
func (r RequestConfig) Normalize() (RequestConfig, error) {
	out := r
	out.APIKey = strings.TrimSpace(r.APIKey)
	if out.APIKey == "" {
		return RequestConfig{}, ErrInvalidCredential
	}
	mode, ok := ParseMode(string(r.Mode))
	if !ok {
		return RequestConfig{}, fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
	}
	out.Mode = mode
	query, err := filterQuery(mode, r.Query)
	if err != nil {
		return RequestConfig{}, err
	}
	out.Query = query
	if out.Count <= 0 {
		out.Count = DefaultCount
	}
	if out.Staleness <= 0 {
		out.Staleness = DefaultStaleness
	}
	excl := make(map[string]struct{}, len(r.ExcludeAuthors))
	for k := range r.ExcludeAuthors {
		if k = authorKey(k); k != "" {
			excl[k] = struct{}{}
		}
	}
	out.ExcludeAuthors = excl
	return out, nil
}

func filterQuery(mode Mode, in map[string]string) (map[string]string, error) {
	canonical := map[string]string{}
	for _, k := range queryKeys[mode] {
		canonical[strings.ToLower(k)] = k
	}
	out := map[string]string{}
	for k, v := range in {
		name, ok := canonical[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		out[name] = v
	}
	if len(out) == 0 {
		keys := append([]string(nil), queryKeys[mode]...)
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: provide at least one of %s", ErrInvalidQueryOptions, strings.Join(keys, ", "))
	}
	return out, nil
}

// ParseRequest builds a RequestConfig from a loosely typed payload with the
// keys apiKey, choice, query, pageSize, fetchInterval (milliseconds) and
// excludeAuthors. Absent or wrongly typed fields count as not provided.
func ParseRequest(payload map[string]any) (RequestConfig, error) {
	var r RequestConfig
	if s, ok := payload["apiKey"].(string); ok {
		r.APIKey = s
	}
	if s, ok := payload["choice"].(string); ok {
		r.Mode = Mode(s)
	}
	r.Query = toQuery(payload["query"])
	if n, ok := toInt(payload["pageSize"]); ok {
		r.Count = n
	}
	if n, ok := toInt(payload["fetchInterval"]); ok && n > 0 {
		r.Staleness = time.Duration(min(int64(n), math.MaxInt64/int64(time.Millisecond))) * time.Millisecond
	}
	r.ExcludeAuthors = ExclusionSet(toStrings(payload["excludeAuthors"]))
	return r.Normalize()
}

func toQuery(v any) map[string]string {
	out := map[string]string{}
	switch q := v.(type) {
	case map[string]string:
		for k, s := range q {
			out[k] = s
		}
	case map[string]any:
		for k, raw := range q {
			if s, ok := queryValue(raw); ok {
				out[k] = s
			}
		}
	}
	return out
}

func queryValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []string:
		return strings.Join(t, ","), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s, ok := queryValue(p); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	case bool, int, int64, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		if n >= math.MaxInt {
			return math.MaxInt, true
		}
		if n <= math.MinInt {
			return math.MinInt, true
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
