// Package gitlog resolves last-modified times for content files from the
// surrounding git checkout, the way static site generators derive "updated"
// dates from commit history.
package gitlog

import (
	"fmt"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

type Service struct {
	repo *git.Repository
	root string
}

// Open locates the git repository containing dir, walking up to the nearest
// .git the way the git CLI does. A content directory outside any checkout is
// not an error condition for the site; callers treat it as "git info
// unavailable" and skip stamping.
func Open(dir string) (*Service, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repo at %s: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return &Service{repo: repo, root: worktree.Filesystem.Root()}, nil
}

// LastModified returns the author time of the most recent commit touching
// the file. Uncommitted or untracked files report ok=false.
func (s *Service) LastModified(path string) (time.Time, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	iter, err := s.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, false
	}
	return commit.Author.When, true
}
