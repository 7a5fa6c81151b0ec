package substitute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     Vars
		expected string
	}{
		{"hello world", "Hello, ${name}!", Vars{"name": "world"}, "Hello, world!"},
		{"repeated placeholder", "${a}-${a}", Vars{"a": "x"}, "x-x"},
		{"unknown placeholder kept", "${missing}/home", Vars{"a": "x"}, "${missing}/home"},
		{"unused variable ignored", "static", Vars{"a": "x"}, "static"},
		{"nil vars", "${a}", nil, "${a}"},
		{"unicode value", "${flip}", Vars{"flip": "(ノಠ益ಠ)ノ彡┻━┻"}, "(ノಠ益ಠ)ノ彡┻━┻"},
		{"key matched literally", "${a.b*}", Vars{"a.b*": "ok"}, "ok"},
		{"dollar without braces untouched", "$a and ${a}", Vars{"a": "1"}, "$a and 1"},
		{"empty key", "${}", Vars{"": "empty"}, "empty"},
		{"value not rescanned", "${a}", Vars{"a": "${b}", "b": "nope"}, "${b}"},
		{"longest placeholder wins", "${a}x}", Vars{"a": "short", "a}x": "long"}, "long"},
		{"url", "${homepage_url}/home", Vars{"homepage_url": "https://example.com"}, "https://example.com/home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.template, tt.vars))
		})
	}
}

func TestResolve_MatchesManualReplacement(t *testing.T) {
	templates := []string{
		"",
		"${k}",
		"prefix ${k} middle ${k} suffix",
		"${k}${k}${k}",
		"no markers at all",
		"#{${k} + 1}",
	}

	for _, tmpl := range templates {
		got := Resolve(tmpl, Vars{"k": "v"})
		want := ""
		for i := 0; i < len(tmpl); {
			if len(tmpl)-i >= 4 && tmpl[i:i+4] == "${k}" {
				want += "v"
				i += 4
				continue
			}
			want += string(tmpl[i])
			i++
		}
		assert.Equal(t, want, got, "template %q", tmpl)
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(Vars{"a": "1", "b": "1"}, nil, Vars{"b": "2", "c": "2"})

	assert.Equal(t, Vars{"a": "1", "b": "2", "c": "2"}, merged)
	assert.Equal(t, []string{"a", "b", "c"}, merged.Keys())
}
