package pathsafe

import "testing"

func TestIsSafeAccepts(t *testing.T) {
	cases := []string{"a.txt", "dir/sub/file.go", "a b/c"}
	for _, c := range cases {
		if !IsSafe(c) {
			t.Errorf("expected %q to be safe", c)
		}
	}
}

func TestIsSafeRejects(t *testing.T) {
	cases := []string{
		"",
		"/abs/path",
		`\abs\path`,
		"C:/windows",
		"c:\\windows",
		"../escape.txt",
		"a/../../escape.txt",
		"a/./b",
		"a//b",
		"has\x00nul",
	}
	for _, c := range cases {
		if IsSafe(c) {
			t.Errorf("expected %q to be unsafe", c)
		}
	}
}
