package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.ChunkSize != 4096 {
		t.Errorf("ChunkSize = %d, want 4096", cfg.ChunkSize)
	}
}

func TestValidateRejectsBadChunkSize(t *testing.T) {
	cases := []int{0, -8, 5}

	for _, n := range cases {
		if _, err := New(WithChunkSize(n)); err == nil {
			t.Errorf("New(WithChunkSize(%d)) should be rejected", n)
		}
	}
}

func TestValidateRejectsBadMinBlockSize(t *testing.T) {
	if _, err := New(WithMinBlockSize(8)); err == nil {
		t.Error("MinBlockSize below 16 should be rejected")
	}

	if _, err := New(WithMinBlockSize(17)); err == nil {
		t.Error("unaligned MinBlockSize should be rejected")
	}
}

func TestValidateRejectsUnparsableConstraint(t *testing.T) {
	if _, err := New(WithRequireFormat("not-a-constraint!!")); err == nil {
		t.Error("unparsable RequireFormat should be rejected")
	}
}

func TestCheckFormat(t *testing.T) {
	cfg, err := New(WithRequireFormat("^1.0.0"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cases := []struct {
		version string
		wantErr bool
	}{
		{"", false},
		{"1.0.0", false},
		{"1.5.2", false},
		{"2.0.0", true},
		{"not-a-version", true},
	}

	for _, c := range cases {
		err := cfg.CheckFormat(c.version)
		if (err != nil) != c.wantErr {
			t.Errorf("CheckFormat(%q) error = %v, wantErr %v", c.version, err, c.wantErr)
		}
	}
}
