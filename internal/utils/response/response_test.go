package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusTeapot, map[string]string{"hello": "world"})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestGeneralError(t *testing.T) {
	resp := GeneralError(errors.New("boom"))

	if resp.Status != StatusError {
		t.Errorf("Status = %q, want %q", resp.Status, StatusError)
	}
	if resp.Error != "boom" {
		t.Errorf("Error = %q, want boom", resp.Error)
	}
}

func TestValidationError(t *testing.T) {
	// Produce real ValidationErrors by validating an empty struct.
	type payload struct {
		Name   string   `validate:"required"`
		Coords *float64 `validate:"required"`
	}

	err := validator.New().Struct(payload{})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	resp := ValidationError(err.(validator.ValidationErrors))

	if resp.Status != StatusError {
		t.Errorf("Status = %q, want %q", resp.Status, StatusError)
	}
	for _, want := range []string{"field Name is required", "field Coords is required"} {
		if !strings.Contains(resp.Error, want) {
			t.Errorf("Error = %q, want it to contain %q", resp.Error, want)
		}
	}
}
