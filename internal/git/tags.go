// Package git reads release tag metadata from a local repository.
//
// The linker core only needs one narrow capability: the list of tags with
// their timestamps. TagLister is that capability; Repository is the go-git
// backed implementation. Tests and embedders can substitute a fixed list.
package git

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
	"git.home.luguber.info/inful/rstlinker/internal/logfields"
)

// Tag is one release tag with its resolved timestamp.
type Tag struct {
	Name string
	When time.Time
}

// TagLister is the read-only repository capability the resolver consumes.
type TagLister interface {
	ListTags() ([]Tag, error)
}

// Repository is a TagLister over a local git repository.
type Repository struct {
	repo *gogit.Repository
	path string
}

// Open opens the repository at path, searching parent directories for the
// .git directory the way the git CLI does. A path that is not inside a
// repository yields a repository-unavailable error.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, linkerrs.RepositoryUnavailable(err, path)
	}
	return &Repository{repo: repo, path: path}, nil
}

// ListTags returns every tag in the repository with its timestamp. Annotated
// tags use the tagger date; lightweight tags use the committer date of the
// commit they point at. Tags whose target cannot be resolved are skipped,
// not treated as errors.
func (r *Repository) ListTags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, linkerrs.RepositoryUnavailable(err, r.path)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		when, ok := r.resolveWhen(ref.Hash())
		if !ok {
			slog.Debug("Skipping unresolvable tag", logfields.Tag(name), logfields.Path(r.path))
			return nil
		}
		tags = append(tags, Tag{Name: name, When: when})
		return nil
	})
	if err != nil {
		return nil, linkerrs.RepositoryUnavailable(err, r.path)
	}
	return tags, nil
}

func (r *Repository) resolveWhen(hash plumbing.Hash) (time.Time, bool) {
	if tag, err := r.repo.TagObject(hash); err == nil {
		return tag.Tagger.When, true
	} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return time.Time{}, false
	}
	// Lightweight tag: the ref points straight at a commit.
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, false
	}
	return commit.Committer.When, true
}

// Dates resolves the tag list into a version-label -> timestamp mapping.
// Labels are tag names verbatim, with prefix stripped when configured
// (e.g. prefix "v" maps tag "v1.0" to label "1.0"). A tag without the
// prefix keeps its full name.
func Dates(lister TagLister, prefix string) (map[string]time.Time, error) {
	tags, err := lister.ListTags()
	if err != nil {
		return nil, err
	}
	dates := make(map[string]time.Time, len(tags))
	for _, t := range tags {
		label := t.Name
		if prefix != "" {
			label = strings.TrimPrefix(label, prefix)
		}
		dates[label] = t.When
	}
	return dates, nil
}
