package ports

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"

	"golang.org/x/crypto/ssh"
)

func generateTestSigner(t *testing.T) ssh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	return signer
}

func signSSHV1(t *testing.T, signer ssh.Signer, payload []byte) []byte {
	t.Helper()
	sig, err := signer.Sign(rand.Reader, payload)
	if err != nil {
		t.Fatal(err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(signer.PublicKey().Marshal())
	sigB64 := base64.StdEncoding.EncodeToString(sig.Blob)
	return []byte(fmt.Sprintf("%s:%s:%s:%s", sshSigPrefix, sig.Format, pubB64, sigB64))
}

func TestSSHSignatureVerifierAcceptsValidSignature(t *testing.T) {
	signer := generateTestSigner(t)
	payload := []byte("tree deadbeef\nparent cafefeed\n\ncommit message\n")
	encoded := signSSHV1(t, signer, payload)

	ok, err := SSHSignatureVerifier{}.Verify(payload, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected signature to verify")
	}
}

func TestSSHSignatureVerifierRejectsTamperedPayload(t *testing.T) {
	signer := generateTestSigner(t)
	encoded := signSSHV1(t, signer, []byte("original payload"))

	ok, err := SSHSignatureVerifier{}.Verify([]byte("tampered payload"), encoded)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected tampered payload to fail verification")
	}
}

func TestSSHSignatureVerifierRejectsUnrecognizedEncoding(t *testing.T) {
	if _, err := (SSHSignatureVerifier{}).Verify([]byte("payload"), []byte("not-a-valid-encoding")); err == nil {
		t.Fatal("expected an error for malformed signature encoding")
	}
}

func TestSSHURLUser(t *testing.T) {
	cases := map[string]string{
		"ssh://git@example.com/repo.git":    "git",
		"ssh://deploy@example.com/repo.git": "deploy",
		"ssh://example.com/repo.git":        "git",
	}
	for url, want := range cases {
		if got := sshURLUser(url); got != want {
			t.Errorf("sshURLUser(%q) = %q, want %q", url, got, want)
		}
	}
}
