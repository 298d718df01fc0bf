package domain_test

import (
	"testing"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

func TestParseTripID(t *testing.T) {
	t.Parallel()

	id, err := domain.ParseTripID("550e8400-e29b-41d4-a716-446655440000")
	if err != nil {
		t.Fatalf("ParseTripID: %v", err)
	}
	if id != "550e8400-e29b-41d4-a716-446655440000" {
		t.Fatalf("id=%s", id)
	}

	for _, raw := range []string{
		"",
		"not-a-uuid",
		"550e8400e29b41d4a716446655440000",                       // missing dashes
		"{550e8400-e29b-41d4-a716-446655440000}",                 // braced form
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",          // urn form
		"550e8400-e29b-41d4-a716-446655440000 ",                  // trailing space
		"550e8400-e29b-41d4-a716-44665544000g",                   // bad hex
		"550e8400-e29b-41d4-a716-446655440000-extra-bytes-after", // too long
	} {
		if _, err := domain.ParseTripID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
