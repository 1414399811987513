package gitlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, contents string, when time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("git add %s: %v", name, err)
	}
	_, err = worktree.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Laura", Email: "laura@example.com", When: when},
	})
	if err != nil {
		t.Fatalf("commit %s: %v", name, err)
	}
}

func TestLastModified(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	first := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "content/writing/post.mdx", "v1", first)
	commitFile(t, repo, dir, "content/writing/post.mdx", "v2", second)
	commitFile(t, repo, dir, "content/writing/other.mdx", "v1", second.Add(time.Hour))

	svc, err := Open(filepath.Join(dir, "content"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	when, ok := svc.LastModified(filepath.Join(dir, "content/writing/post.mdx"))
	if !ok {
		t.Fatal("expected git info for committed file")
	}
	if !when.Equal(second) {
		t.Errorf("expected last commit time %v, got %v", second, when)
	}
}

func TestLastModifiedUntrackedFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	commitFile(t, repo, dir, "tracked.mdx", "v1", time.Now())

	if err := os.WriteFile(filepath.Join(dir, "untracked.mdx"), []byte("draft"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := svc.LastModified(filepath.Join(dir, "untracked.mdx")); ok {
		t.Error("expected ok=false for untracked file")
	}
}

func TestOpenOutsideRepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error outside a git checkout")
	}
}
