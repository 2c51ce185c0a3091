// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package validation

import "testing"

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type userRequest struct {
	UserID string `json:"user_id" validate:"required,userid"`
}

type batchRequest struct {
	UserID  string `json:"user_id" validate:"required,userid"`
	Referer string `json:"referer" validate:"required"`
	Limit   int    `validate:"max=5"`
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "7", want: 7},
		{in: " 42 ", want: 42},
		{in: "-1", want: -1},
		{in: "+5", want: 5},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "3.0", wantErr: true},
		{in: "12abc", wantErr: true},
		{in: "99999999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUserID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUserID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseUserID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateStruct_UserID(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		wantTag string
		wantMsg string
	}{
		{name: "valid", userID: "7"},
		{name: "padded", userID: " 7 "},
		{name: "missing", userID: "", wantTag: "required", wantMsg: "user_id is required"},
		{name: "not a number", userID: "seven", wantTag: "userid", wantMsg: "user_id must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&userRequest{UserID: tt.userID})
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}

			if len(verr.Fields) != 1 {
				t.Fatalf("Fields = %d, want 1", len(verr.Fields))
			}
			if f := verr.Fields[0]; f.Field != "user_id" || f.Tag != tt.wantTag {
				t.Errorf("error = %s/%s, want user_id/%s", f.Field, f.Tag, tt.wantTag)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_FieldOrderAndFallbackMessage(t *testing.T) {
	verr := ValidateStruct(&batchRequest{UserID: "x", Limit: 9})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("Fields = %d, want 3", len(verr.Fields))
	}
	want := "user_id must be an integer; referer is required; Limit failed max validation"
	if verr.Error() != want {
		t.Errorf("Error() = %q, want %q", verr.Error(), want)
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("reports first field", func(t *testing.T) {
		apiErr := ValidateStruct(&batchRequest{UserID: "x"}).ToAPIError()
		if apiErr.Code != CodeValidationFailed {
			t.Errorf("Code = %q, want %q", apiErr.Code, CodeValidationFailed)
		}
		if apiErr.Message != "user_id must be an integer" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "user_id" || apiErr.Details["value"] != "x" || apiErr.Details["tag"] != "userid" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Code != CodeValidationFailed || apiErr.Message != "Validation failed" {
			t.Errorf("ToAPIError() = %+v", apiErr)
		}
	})
}
