package ports

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPFetcher performs the info/refs discovery request pkg/gitrepo's
// resolveSource (clone.go) inlines for plain http(s) sources, factored out
// here so callers that need custom transports (proxies, mTLS, retry
// policies) can swap in their own http.Client instead of the package-level
// default one resolveSource uses directly.
type HTTPFetcher struct {
	Client *http.Client
}

// DiscoverRefs issues the upload-pack info/refs request against baseURL
// and returns the repository path the server advertises via the
// x-codex-repo-path response header — the same mirror-resolution contract
// pkg/gitrepo.resolveSource expects (spec.md §9's http(s)-to-local-mirror
// scope boundary).
func (f HTTPFetcher) DiscoverRefs(baseURL string) (mirrorPath string, err error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/info/refs?service=git-upload-pack")
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("http fetch: info/refs: HTTP %d", resp.StatusCode)
	}
	mirror := resp.Header.Get("x-codex-repo-path")
	if mirror == "" {
		return "", fmt.Errorf("http fetch: server did not advertise x-codex-repo-path; real upload-pack negotiation is out of scope")
	}
	return mirror, nil
}
