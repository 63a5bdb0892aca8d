package core

import (
	"errors"
	"testing"
)

func TestNewSearchRequest(t *testing.T) {
	tests := []struct {
		name      string
		keyword   string
		part      string
		csv       string
		count     int
		wantMode  Mode
		wantUsage bool
	}{
		{name: "none", count: 10, wantUsage: true},
		{name: "blank only", keyword: "  ", count: 10, wantUsage: true},
		{name: "two", keyword: "res", part: "296-6501-1-ND", count: 10, wantUsage: true},
		{name: "three", keyword: "res", part: "x", csv: "in.csv", count: 10, wantUsage: true},
		{name: "keyword", keyword: "CRCW080510K0FKEA", count: 10, wantMode: ModeKeyword},
		{name: "keyword bad count", keyword: "res", count: 0, wantUsage: true},
		{name: "part number", part: "296-6501-1-ND", count: 10, wantMode: ModePartNumber},
		{name: "csv", csv: "in.csv", count: 10, wantMode: ModeBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewSearchRequest(tt.keyword, tt.part, tt.csv, tt.count)
			if tt.wantUsage {
				var usage *UsageError
				if !errors.As(err, &usage) {
					t.Fatalf("expected UsageError, got %v", err)
				}
				if ExitCode(err) != 2 {
					t.Errorf("ExitCode() = %d, want 2", ExitCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", req.Mode, tt.wantMode)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Error("nil error should exit 0")
	}
	if ExitCode(&OutputWriteError{Path: "x", Err: errors.New("denied")}) != 1 {
		t.Error("output error should exit 1")
	}
	if ExitCode(&ConfigError{Err: errors.New("missing")}) != 1 {
		t.Error("config error should exit 1")
	}
}
