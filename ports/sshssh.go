// Package ports holds network-facing adapters that sit outside the
// importable core (pkg/...), the way the teacher keeps
// cmd/got/signing_ssh.go outside pkg/repo: these touch the filesystem for
// key material, spawn an ssh-agent connection, or make outbound network
// calls, none of which the core packages do directly.
package ports

import (
	"encoding/base64"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/odvcencio/gitcore/pkg/ports"
)

const sshSigPrefix = "sshsig-v1"

// SSHSignatureVerifier implements ports.Signature against the
// "sshsig-v1:<format>:<pubkey-b64>:<sig-b64>" encoding gitrepo.VerifyCommitSignature
// expects from object.Commit.Signature, mirroring the "sshsig-v1" format
// the teacher's newSSHCommitSigner produces.
type SSHSignatureVerifier struct{}

func (SSHSignatureVerifier) Verify(payload, signature []byte) (bool, error) {
	fields := strings.Split(string(signature), ":")
	if len(fields) != 4 || fields[0] != sshSigPrefix {
		return false, fmt.Errorf("ssh signature: unrecognized encoding")
	}
	format, pubB64, sigB64 := fields[1], fields[2], fields[3]

	pubRaw, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return false, fmt.Errorf("ssh signature: decode public key: %w", err)
	}
	pub, err := ssh.ParsePublicKey(pubRaw)
	if err != nil {
		return false, fmt.Errorf("ssh signature: parse public key: %w", err)
	}

	sigBlob, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, fmt.Errorf("ssh signature: decode signature: %w", err)
	}

	err = pub.Verify(payload, &ssh.Signature{Format: format, Blob: sigBlob})
	return err == nil, nil
}

// SSHAgentCredential satisfies ports.Credential by consulting SSH_AUTH_SOCK
// for the first identity an ssh-agent offers, rather than prompting for a
// password; resolveSource (pkg/gitrepo/clone.go) consults this for ssh://
// sources. The returned "secret" is a placeholder marker, never the raw
// key material, since the actual private-key operations stay inside the
// agent.
type SSHAgentCredential struct {
	// SocketPath overrides SSH_AUTH_SOCK's value; empty means read the
	// environment variable.
	SocketPath string
}

var _ ports.Credential = SSHAgentCredential{}
var _ ports.Signature = SSHSignatureVerifier{}

func (c SSHAgentCredential) Get(rawURL string) (username, secret string, ok bool, err error) {
	sock := c.SocketPath
	if sock == "" {
		sock = os.Getenv("SSH_AUTH_SOCK")
	}
	if sock == "" {
		return "", "", false, fmt.Errorf("ssh credential: SSH_AUTH_SOCK is not set")
	}

	conn, err := net.Dial("unix", sock)
	if err != nil {
		return "", "", false, fmt.Errorf("ssh credential: dial agent: %w", err)
	}
	defer conn.Close()

	keys, err := agent.NewClient(conn).List()
	if err != nil {
		return "", "", false, fmt.Errorf("ssh credential: list agent identities: %w", err)
	}
	if len(keys) == 0 {
		return "", "", false, nil
	}

	user := sshURLUser(rawURL)
	return user, "ssh-agent:" + keys[0].Comment, true, nil
}

func sshURLUser(rawURL string) string {
	rest := strings.TrimPrefix(rawURL, "ssh://")
	if i := strings.Index(rest, "@"); i >= 0 {
		return rest[:i]
	}
	return "git"
}

// LoadSigningKey parses a private key file the way the teacher's
// resolveSigningKeyPath/newSSHCommitSigner do, for callers that want to
// produce (not just verify) sshsig-v1 signatures outside the core's
// Non-goals boundary.
func LoadSigningKey(path string) (ssh.Signer, error) {
	resolved, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read signing key %q: %w", resolved, err)
	}
	return ssh.ParsePrivateKey(raw)
}

func expandUserPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
