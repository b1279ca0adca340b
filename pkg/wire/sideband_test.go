package wire

import (
	"bufio"
	"bytes"
	"testing"
)

func TestEncodeDecodeSidebandLineRoundTrip(t *testing.T) {
	encoded, err := EncodeSidebandLine(SidebandData, []byte("pack-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(bytes.NewReader(encoded))
	line, err := ReadLine(r)
	if err != nil {
		t.Fatal(err)
	}
	channel, data, err := DecodeSidebandLine(line)
	if err != nil {
		t.Fatal(err)
	}
	if channel != SidebandData {
		t.Fatalf("unexpected channel: %d", channel)
	}
	if string(data) != "pack-bytes" {
		t.Fatalf("unexpected data: %q", data)
	}
}

func TestDecodeSidebandLineRejectsEmpty(t *testing.T) {
	if _, _, err := DecodeSidebandLine(nil); err == nil {
		t.Fatal("expected error for empty sideband line")
	}
}

func TestCompressDecompressSidebandPayloadRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("partial-clone-backfill-payload "), 64)
	compressed, err := CompressSidebandPayload(original)
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) >= len(original) {
		t.Fatalf("expected compression to shrink a repetitive payload: %d vs %d", len(compressed), len(original))
	}
	decompressed, err := DecompressSidebandPayload(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatal("decompressed payload does not match original")
	}
}

func TestWriteSidebandStreamChunksLargePayloads(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	payload := bytes.Repeat([]byte("x"), MaxData*2+10)
	if err := WriteSidebandStream(w, SidebandData, payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	var reassembled []byte
	for {
		line, err := ReadLine(r)
		if err != nil {
			break
		}
		if line == nil {
			break
		}
		_, data, err := DecodeSidebandLine(line)
		if err != nil {
			t.Fatal(err)
		}
		reassembled = append(reassembled, data...)
	}
	if !bytes.Equal(reassembled, payload) {
		t.Fatalf("reassembled stream mismatch: got %d bytes, want %d", len(reassembled), len(payload))
	}
}
