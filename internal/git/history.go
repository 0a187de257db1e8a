package git

import (
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// History answers "when was this file last committed" for one repository.
type History struct {
	repo *git.Repository
	root string
}

// OpenHistory opens the repository containing path, searching parent directories.
func OpenHistory(path string) (*History, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", path)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ClassifyGitError(err, "worktree", path)
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return nil, ClassifyGitError(err, "resolve root", path)
	}
	return &History{repo: repo, root: root}, nil
}

// Root returns the worktree root.
func (h *History) Root() string { return h.root }

// LastUpdated returns the committer time of the newest commit touching path.
// ok is false when the file has never been committed or the repository has no commits.
func (h *History) LastUpdated(path string) (updated time.Time, ok bool, err error) {
	rel, err := h.relative(path)
	if err != nil {
		return time.Time{}, false, err
	}

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, ClassifyGitError(err, "log", path)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if stderrors.Is(err, io.EOF) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, ClassifyGitError(err, "log", path)
	}
	return commit.Committer.When, true, nil
}

func (h *History) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ClassifyGitError(err, "resolve path", path)
	}
	if resolved, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(h.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", GitError("path outside repository").
			WithCategory(ferrors.CategoryValidation).
			WithContext("path", path).
			WithContext("root", h.root).
			Build()
	}
	return filepath.ToSlash(rel), nil
}
