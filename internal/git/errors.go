package git

import (
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// GitError simplifies creating a git-scoped ClassifiedError.
func GitError(message string) *errors.ErrorBuilder {
	return errors.NewError(errors.CategoryGit, message)
}

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, path string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("path", path)

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "repository does not exist"):
		builder.WithCategory(errors.CategoryNotFound)
	case strings.Contains(l, "reference not found"):
		// Empty repository: no HEAD yet.
		builder.WithCategory(errors.CategoryNotFound)
	case strings.Contains(l, "permission denied"):
		builder.WithCategory(errors.CategoryFileSystem)
	}
	return builder.Build()
}
