package substitute

import (
	"sort"
	"strings"
)

// Vars is one variable layer: a flat mapping from name to value.
type Vars map[string]string

// Placeholder returns the ${name} marker for a variable name.
func Placeholder(name string) string {
	return "${" + name + "}"
}

// Resolve replaces every literal ${key} in template with the value of key in
// vars. Keys are matched verbatim, without escaping. Placeholders with no
// matching key are left untouched and keys with no placeholder are ignored.
//
// The template is scanned once, left to right, so text inserted from vars is
// never rescanned by the same call. If two placeholders could match at the
// same position (possible only when a key contains '}'), the longer one wins.
func Resolve(template string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(template, "${") {
		return template
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, Placeholder(k), vars[k])
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// Merge returns a new layer holding every entry of layers, later layers
// overriding earlier ones. Nil layers are skipped.
func Merge(layers ...Vars) Vars {
	n := 0
	for _, l := range layers {
		n += len(l)
	}
	merged := make(Vars, n)
	for _, l := range layers {
		for k, v := range l {
			merged[k] = v
		}
	}
	return merged
}

// Keys returns the layer's variable names in sorted order.
func (v Vars) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
