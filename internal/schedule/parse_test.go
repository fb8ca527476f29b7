package schedule

import (
	"errors"
	"testing"

	"github.com/bft-labs/chime/internal/domain"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.TimeOfDay
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: domain.TimeOfDay{Hour: 9, Minute: 30}},
		{name: "hh:mm:ss", input: "09:30:15", want: domain.TimeOfDay{Hour: 9, Minute: 30, Second: 15}},
		{name: "midnight", input: "00:00", want: domain.TimeOfDay{}},
		{name: "last second", input: "23:59:59", want: domain.TimeOfDay{Hour: 23, Minute: 59, Second: 59}},
		{name: "surrounding whitespace", input: "  07:05 ", want: domain.TimeOfDay{Hour: 7, Minute: 5}},
		{name: "single digit fields", input: "9:3", wantErr: true},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "too many fields", input: "01:02:03:04", wantErr: true},
		{name: "signed field", input: "-1:00", wantErr: true},
		{name: "plus-signed hour", input: "+9:30", wantErr: true},
		{name: "plus-signed minute", input: "09:+5", wantErr: true},
		{name: "plus-signed every field", input: "+1:+2:+3", wantErr: true},
		{name: "inner space", input: "09: 5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, domain.ErrInvalidTime) {
					t.Errorf("ParseTimeOfDay(%q) error = %v, want ErrInvalidTime", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeOfDay_ShortFormEqualsLong(t *testing.T) {
	short, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatal(err)
	}
	long, err := ParseTimeOfDay("09:30:00")
	if err != nil {
		t.Fatal(err)
	}
	if short != long {
		t.Errorf("09:30 = %v, 09:30:00 = %v, want equal", short, long)
	}
}
