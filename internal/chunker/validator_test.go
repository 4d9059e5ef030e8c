package chunker

import (
	"strings"
	"testing"
)

func TestValidForChunking(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		maxSize    int
		wantValid  bool
		wantReason string
	}{
		{
			name:      "normal document",
			text:      "El servicio se despliega con cada push a main.",
			maxSize:   1000,
			wantValid: true,
		},
		{
			name:       "empty text",
			text:       "",
			maxSize:    1000,
			wantValid:  false,
			wantReason: ReasonEmpty,
		},
		{
			name:       "whitespace only",
			text:       "  \n\t  ",
			maxSize:    1000,
			wantValid:  false,
			wantReason: ReasonEmpty,
		},
		{
			name:       "over size limit",
			text:       strings.Repeat("a", 1001),
			maxSize:    1000,
			wantValid:  false,
			wantReason: ReasonTooLarge,
		},
		{
			name:      "exactly at size limit",
			text:      strings.Repeat("a", 1000),
			maxSize:   1000,
			wantValid: true,
		},
		{
			name:      "zero max size disables the limit",
			text:      strings.Repeat("a", 1_000_000),
			maxSize:   0,
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := ValidForChunking(tt.text, tt.maxSize)
			if valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", valid, tt.wantValid)
			}
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
