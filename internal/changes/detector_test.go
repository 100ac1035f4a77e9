package changes_test

import (
	"testing"

	"teamnotify/internal/changes"
)

func TestWasTriggerPathModified(t *testing.T) {
	const trigger = "api/lib/config.js"

	tests := []struct {
		name  string
		files []string
		want  bool
	}{
		{name: "present", files: []string{"README.md", "api/lib/config.js"}, want: true},
		{name: "only file", files: []string{"api/lib/config.js"}, want: true},
		{name: "absent", files: []string{"api/lib/config.test.js", "api/lib/other.js"}, want: false},
		{name: "empty", files: nil, want: false},
		{name: "leading slash", files: []string{"/api/lib/config.js"}, want: false},
		{name: "windows separators", files: []string{`api\lib\config.js`}, want: false},
		{name: "case differs", files: []string{"API/lib/config.js"}, want: false},
		{name: "prefix only", files: []string{"api/lib/config.js.bak"}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := changes.WasTriggerPathModified(tc.files, trigger); got != tc.want {
				t.Fatalf("WasTriggerPathModified(%v) = %v, want %v", tc.files, got, tc.want)
			}
		})
	}
}
