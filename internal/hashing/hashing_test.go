package hashing

import (
	"testing"
)

func TestContentHash(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ContentHash(tt.text)
			if result != tt.expected {
				t.Errorf("ContentHash(%q) = %s, want %s", tt.text, result, tt.expected)
			}
		})
	}
}

func TestMetadataHash_Deterministic(t *testing.T) {
	meta := Metadata{
		Title:          "Senior Backend Engineer",
		Company:        "Acme Corp",
		Location:       "Remote",
		FirstPublished: "2026-01-15",
		RequisitionID:  "REQ-4412",
	}

	first, err := MetadataHash(meta)
	if err != nil {
		t.Fatalf("MetadataHash() error = %v", err)
	}
	second, err := MetadataHash(meta)
	if err != nil {
		t.Fatalf("MetadataHash() error = %v", err)
	}
	if first != second {
		t.Errorf("MetadataHash() not deterministic: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("MetadataHash() length = %d, want 64 hex chars", len(first))
	}
}

func TestMetadataHash_SensitiveToFields(t *testing.T) {
	base := Metadata{Title: "Engineer", Company: "Acme"}
	changed := Metadata{Title: "Engineer", Company: "Acme", Location: "NYC"}

	a, err := MetadataHash(base)
	if err != nil {
		t.Fatalf("MetadataHash() error = %v", err)
	}
	b, err := MetadataHash(changed)
	if err != nil {
		t.Fatalf("MetadataHash() error = %v", err)
	}
	if a == b {
		t.Error("MetadataHash() ignored a changed field")
	}
}

func TestSimhash_Deterministic(t *testing.T) {
	text := "We are looking for a backend engineer with Go experience"
	if Simhash(text) != Simhash(text) {
		t.Error("Simhash() is not deterministic")
	}
}

func TestSimhash_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   \t\n  "},
		{"punctuation only", "... !!! ???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Simhash(tt.text); got != 0 {
				t.Errorf("Simhash(%q) = %d, want 0", tt.text, got)
			}
		})
	}
}

func TestSimhash_NearDuplicatesAreClose(t *testing.T) {
	original := "We are seeking a senior software engineer to join our growing platform team. " +
		"You will design and build distributed systems, mentor junior engineers, and own " +
		"services end to end. Requirements include five years of backend experience, strong " +
		"knowledge of Go or Java, and familiarity with PostgreSQL and message queues."
	// Same posting with one unrelated word swapped.
	repost := "We are seeking a senior software engineer to join our growing infrastructure team. " +
		"You will design and build distributed systems, mentor junior engineers, and own " +
		"services end to end. Requirements include five years of backend experience, strong " +
		"knowledge of Go or Java, and familiarity with PostgreSQL and message queues."

	distance := HammingDistance(Simhash(original), Simhash(repost))
	if distance > 10 {
		t.Errorf("near-duplicate distance = %d, want <= 10", distance)
	}
}

func TestSimhash_UnrelatedTextsAreFar(t *testing.T) {
	jobText := "We are seeking a senior software engineer to join our growing platform team. " +
		"You will design and build distributed systems, mentor junior engineers, and own " +
		"services end to end with strong knowledge of Go and PostgreSQL."
	recipeText := "Preheat the oven to four hundred degrees and butter a large baking dish. " +
		"Whisk together flour, sugar, cinnamon, and a pinch of salt, then fold in the sliced " +
		"apples until every piece is coated evenly before baking forty minutes."

	distance := HammingDistance(Simhash(jobText), Simhash(recipeText))
	if distance <= 10 {
		t.Errorf("unrelated distance = %d, want > 10", distance)
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     uint64
		expected int
	}{
		{"identical", 0xDEADBEEF, 0xDEADBEEF, 0},
		{"one bit", 0x0, 0x1, 1},
		{"all bits", 0x0, ^uint64(0), 64},
		{"half nibble", 0b1100, 0b1010, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HammingDistance(tt.a, tt.b); got != tt.expected {
				t.Errorf("HammingDistance(%#x, %#x) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
