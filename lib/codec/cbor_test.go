// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
	"time"
)

// sampleState is a representative on-disk state record using cbor
// struct tags (the convention for purely-internal types).
type sampleState struct {
	ETag    string   `cbor:"etag"`
	Source  string   `cbor:"source,omitempty"`
	Entries []string `cbor:"entries"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleState{
		ETag:    `"33a64df551425fcc"`,
		Source:  "GloriousEggroll/proton-ge-custom",
		Entries: []string{"GE-Proton10-4", "GE-Proton10-3"},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleState
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.ETag != original.ETag || decoded.Source != original.Source {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	if len(decoded.Entries) != 2 || decoded.Entries[0] != "GE-Proton10-4" {
		t.Errorf("entries mismatch: got %v", decoded.Entries)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	state := sampleState{
		ETag:    `"etag"`,
		Entries: []string{"a", "b", "c"},
	}

	first, err := Marshal(state)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}

	second, err := Marshal(state)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestTimeRoundtripSecondPrecision(t *testing.T) {
	// The encoder writes time.Time as epoch seconds. Snapshot
	// timestamps only feed coarse age comparisons, so second
	// precision is the contract.
	type stamped struct {
		At time.Time `cbor:"at"`
	}

	original := stamped{At: time.Date(2026, 2, 14, 18, 30, 7, 0, time.UTC)}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded stamped
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !decoded.At.Equal(original.At) {
		t.Errorf("time roundtrip: got %v, want %v", decoded.At, original.At)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	// A snapshot written with an extra field must still decode.
	type extended struct {
		ETag  string `cbor:"etag"`
		Extra int    `cbor:"extra"`
	}

	data, err := Marshal(extended{ETag: `"e"`, Extra: 9})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		ETag string `cbor:"etag"`
	}
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.ETag != `"e"` {
		t.Errorf("ETag = %q, want %q", decoded.ETag, `"e"`)
	}
}
