package location_test

import (
	"testing"

	"github.com/binpoint/wms/internal/location"
)

func TestConvertLegacyCode(t *testing.T) {
	levels := []string{"A", "B"}

	tests := []struct {
		name         string
		code         string
		binsPerLevel int
		want         string
		wantErr      bool
	}{
		{
			name: "canonical passes through",
			code: "WH-GF-R01-G01-A1", binsPerLevel: 3,
			want: "WH-GF-R01-G01-A1",
		},
		{
			name: "grid letter scheme",
			code: "WH-GF-R01-B-3", binsPerLevel: 3,
			want: "WH-GF-R01-G02-A3",
		},
		{
			name: "rack wide bin letter, first level",
			code: "WH-GF-R01-C2", binsPerLevel: 3,
			want: "WH-GF-R01-G02-A3",
		},
		{
			name: "rack wide bin letter, rolls to second level",
			code: "WH-GF-R01-E1", binsPerLevel: 3,
			want: "WH-GF-R01-G01-B2",
		},
		{
			name: "bin letter beyond layout",
			code: "WH-GF-R01-H1", binsPerLevel: 3,
			wantErr: true,
		},
		{
			name: "unrecognizable",
			code: "not-a-code", binsPerLevel: 3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := location.ConvertLegacyCode(tt.code, levels, tt.binsPerLevel)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ConvertLegacyCode(%q) succeeded with %q, want error", tt.code, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConvertLegacyCode(%q) failed: %v", tt.code, err)
			}
			if got != tt.want {
				t.Errorf("ConvertLegacyCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
