package objhash

import "testing"

func TestHashDeterminism(t *testing.T) {
	data := []byte("hello world")
	h1 := Hash("blob", data, SHA256)
	h2 := Hash("blob", data, SHA256)
	if h1 != h2 {
		t.Fatalf("Hash not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("Hash length: got %d, want 64", len(h1))
	}
}

func TestHashEnvelopeDiffersFromRaw(t *testing.T) {
	data := []byte("hello")
	withEnvelope := Hash("blob", data, SHA1)
	raw := HashBytes(data, SHA1)
	if withEnvelope == raw {
		t.Fatal("envelope hash should differ from raw hash")
	}
}

func TestHashSHA1Length(t *testing.T) {
	h := Hash("blob", []byte("git\x00core"), SHA1)
	if len(h) != 40 {
		t.Fatalf("SHA1 hash length: got %d, want 40", len(h))
	}
	if !Valid(h) {
		t.Fatalf("expected %q to be a valid OID", h)
	}
}

func TestValidRejectsBadOIDs(t *testing.T) {
	cases := []string{"", "abc", "ZZZZ", "g" + string(make([]byte, 39))}
	for _, c := range cases {
		if Valid(c) {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestAlgoForHex(t *testing.T) {
	if a, ok := AlgoForHex(string(make([]byte, 40))); !ok || a != SHA1 {
		t.Fatalf("expected SHA1 for 40-char hex, got %v %v", a, ok)
	}
	if a, ok := AlgoForHex(string(make([]byte, 64))); !ok || a != SHA256 {
		t.Fatalf("expected SHA256 for 64-char hex, got %v %v", a, ok)
	}
	if _, ok := AlgoForHex(string(make([]byte, 10))); ok {
		t.Fatal("expected failure for unsupported length")
	}
}
