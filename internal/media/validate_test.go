package media

import (
	"errors"
	"testing"
)

func TestParseCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "10", want: 10},
		{raw: " 3 ", want: 3},
		{raw: "1", want: 1},
		{raw: "0", wantErr: true},
		{raw: "-4", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "2.5", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseCount("episode count", tc.raw)
		if tc.wantErr {
			if !IsValidationError(err) {
				t.Errorf("ParseCount(%q) error = %v, want ValidationError", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCount(%q) unexpected error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseSeasonAllowsSpecials(t *testing.T) {
	t.Parallel()
	if got, err := ParseSeason("start season", "0"); err != nil || got != 0 {
		t.Errorf("ParseSeason(\"0\") = %d, %v; want 0, nil", got, err)
	}
	if _, err := ParseSeason("start season", "-1"); !IsValidationError(err) {
		t.Errorf("ParseSeason(\"-1\") error = %v, want ValidationError", err)
	}
	if _, err := ParseSeason("start season", "one"); !IsValidationError(err) {
		t.Errorf("ParseSeason(\"one\") error = %v, want ValidationError", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()
	_, err := ParseCount("episode count", "zero")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got, want := ve.Error(), `invalid episode count "zero": must be a whole number`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = RangeRequest{StartSeason: 5, EndSeason: 2, EpisodesPerSeason: 1}.Validate()
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
	if want := "start season cannot be greater than end season"; ve.Message != want {
		t.Errorf("Message = %q, want %q", ve.Message, want)
	}
}

func TestRangeRequestValid(t *testing.T) {
	t.Parallel()
	for _, req := range []RangeRequest{
		{StartSeason: 0, EndSeason: 0, EpisodesPerSeason: 1},
		{StartSeason: 1, EndSeason: 4, EpisodesPerSeason: 12},
	} {
		if err := req.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", req, err)
		}
	}
}
