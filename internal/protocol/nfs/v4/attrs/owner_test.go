package attrs

import "testing"

func TestParseOwner(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		group   bool
		want    uint32
		wantErr bool
	}{
		{"numeric@domain", "1000@localdomain", false, 1000, false},
		{"zero@domain", "0@localdomain", false, 0, false},
		{"bare numeric", "1000", false, 1000, false},
		{"root@otherdomain", "root@otherdomain", false, 0, false},
		{"nobody", "nobody", false, 65534, false},
		{"wheel group", "wheel@localdomain", true, 0, false},
		{"nogroup", "nogroup", true, 65534, false},
		{"wheel is not an owner", "wheel", false, 0, true},
		{"invalid name", "alice@localdomain", false, 0, true},
		{"empty string", "", false, 0, true},
		{"just at sign", "@localdomain", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOwner(tt.input, tt.group)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOwner(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseOwner(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatOwner(t *testing.T) {
	if got := FormatOwner(1000, "example.com"); got != "1000@example.com" {
		t.Errorf("got %q", got)
	}
	if got := FormatOwner(0, ""); got != "0" {
		t.Errorf("got %q", got)
	}
}
