package runner

import (
	"testing"

	"github.com/sstimap/sstimap/pkg/config"
)

func TestChooseMode(t *testing.T) {
	tests := []struct {
		name    string
		options config.Options
		want    ExecutionMode
	}{
		{
			name:    "no flags falls back to usage hint",
			options: config.Options{},
			want:    ModeUsageHint,
		},
		{
			name:    "target input selects scan",
			options: config.Options{Target: "http://example.com/?name=x"},
			want:    ModeScan,
		},
		{
			name:    "url file selects scan",
			options: config.Options{LoadUrls: "urls.txt"},
			want:    ModeScan,
		},
		{
			name:    "interactive beats target input",
			options: config.Options{Interactive: true, Target: "http://example.com"},
			want:    ModeInteractive,
		},
		{
			name:    "module info beats everything",
			options: config.Options{Module: "list", Interactive: true, Target: "http://example.com"},
			want:    ModeModuleInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseMode(&tt.options); got != tt.want {
				t.Fatalf("mode mismatch: got=%s want=%s", got, tt.want)
			}
		})
	}
}
