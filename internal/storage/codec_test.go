package storage

import (
	"errors"
	"reflect"
	"testing"
)

func TestResultCodecRoundTrip(t *testing.T) {
	want := sampleResult()
	data, err := EncodeResult(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeResult(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Encoding stamps the current versions.
	if got.SchemaVersion != CurrentSchemaVersion || got.CodecVersion != CurrentCodecVersion {
		t.Fatalf("versions not stamped: schema=%d codec=%d", got.SchemaVersion, got.CodecVersion)
	}
	want.SchemaVersion = CurrentSchemaVersion
	want.CodecVersion = CurrentCodecVersion
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestDecodeResultRejectsVersionMismatch(t *testing.T) {
	result := sampleResult()
	data, err := EncodeResult(result)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	stale := []byte(`{"schema_version": 0, "codec_version": 1}`)
	if _, err := DecodeResult(stale); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("stale schema: got %v, want ErrVersionMismatch", err)
	}

	// Sanity: the freshly encoded record still decodes.
	if _, err := DecodeResult(data); err != nil {
		t.Fatalf("current record rejected: %v", err)
	}
}

func TestDecodeResultRejectsGarbage(t *testing.T) {
	if _, err := DecodeResult([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestConvergenceCodecRoundTrip(t *testing.T) {
	want := []float64{0.25, 0.5, 0.75}
	data, err := EncodeConvergence(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeConvergence(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: %v vs %v", got, want)
	}
}
