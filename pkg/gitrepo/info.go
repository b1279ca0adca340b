package gitrepo

// Info summarizes a repository's identity and current state for
// diagnostics and CLI reporting.
type Info struct {
	WorktreeRoot string
	GitDir       string
	HashAlgo     string
	HeadTarget   string // symbolic target ref name, "" if detached
	HeadOID      string
	Detached     bool
}

// Describe reports the repository's current identity (spec.md §4.14's
// "repo info & structure reports").
func (r *Repo) Describe() (*Info, error) {
	info := &Info{
		WorktreeRoot: r.WorktreeRoot,
		GitDir:       r.GitDir,
		HashAlgo:     r.Algo.String(),
	}

	target, symbolic, err := r.Refs.HeadTarget()
	if err != nil {
		return nil, err
	}
	info.Detached = !symbolic
	info.HeadTarget = target

	headOID, err := r.Refs.ResolveHead()
	if err == nil {
		info.HeadOID = headOID
	}
	return info, nil
}

// Structure reports the canonical on-disk directories and sidecar files
// present under GitDir, useful for verifying a clone/init produced the
// expected skeleton (spec.md §6).
type Structure struct {
	Dirs         []string
	SidecarFiles []string
}

var reportedSkeletonDirs = skeletonDirs

var sidecarFileNames = []string{
	rebaseStateFile,
	stashStateFile,
	remotesStateFile,
	submodulesStateFile,
	worktreesStateFile,
	sparseStateFile,
	"partial-clone-codex.json",
	"maintenance-codex.json",
	notesStateFile,
	replaceStateFile,
}

// Inspect reports which canonical directories and sidecar files exist.
func (r *Repo) Inspect() (*Structure, error) {
	s := &Structure{}
	for _, d := range reportedSkeletonDirs {
		if dirExists(r.GitDir, d) {
			s.Dirs = append(s.Dirs, d)
		}
	}
	for _, f := range sidecarFileNames {
		if fileExists(r.GitDir, f) {
			s.SidecarFiles = append(s.SidecarFiles, f)
		}
	}
	return s, nil
}
