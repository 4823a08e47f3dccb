package status

// Branch describes HEAD and its upstream when the report was read. All of it
// comes from local refs; nothing is fetched.
type Branch struct {
	// Name is the short branch name. Empty when HEAD is detached.
	Name string

	// Head is the commit id HEAD resolves to. Empty on an unborn branch.
	Head string

	// Subject is the first line of the HEAD commit message.
	Subject string

	// Upstream is the tracking branch, such as "origin/main". Empty when
	// none is configured.
	Upstream string

	// RemoteURL is the first URL of the upstream's remote.
	RemoteURL string

	// UpstreamGone is set when tracking is configured but the ref is missing.
	UpstreamGone bool

	// Ahead counts commits on HEAD that the upstream lacks; Behind the reverse.
	Ahead  int
	Behind int

	// Local lists the local branch names, sorted.
	Local []string
}

// Detached reports whether HEAD points at a commit rather than a branch.
func (b Branch) Detached() bool {
	return b.Name == "" && b.Head != ""
}

// Unborn reports whether the current branch has no commits yet.
func (b Branch) Unborn() bool {
	return b.Head == ""
}

func (b Branch) clone() Branch {
	if b.Local != nil {
		b.Local = append([]string(nil), b.Local...)
	}
	return b
}
