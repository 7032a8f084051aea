package transfer

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/runner"
)

func testExecutor() *Executor {
	log := logger.New("error", false)
	return NewExecutor(runner.New(0, log), log, nil)
}

func TestRsyncArgs(t *testing.T) {
	site := &domain.Site{
		Name:       "blog",
		LocalPath:  "/home/me/sites/blog",
		RemotePath: "/var/www/blog/",
		SSHUser:    "deploy",
		SSHHost:    "blog.example.com",
		SSHPort:    2222,
	}

	got := rsyncArgs(site)
	want := []string{
		"-avz",
		"--delete",
		"--exclude=.git",
		"--exclude=node_modules",
		"--exclude=__pycache__",
		"--exclude=*.log",
		"-e", "ssh -p 2222",
		"/home/me/sites/blog/",
		"deploy@blog.example.com:/var/www/blog/",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("rsyncArgs() =\n%v\nwant\n%v", got, want)
	}
}

func TestRsyncArgsDefaultPort(t *testing.T) {
	args := rsyncArgs(&domain.Site{LocalPath: "a", RemotePath: "b", SSHUser: "u", SSHHost: "h"})
	for i, a := range args {
		if a == "-e" {
			if args[i+1] != "ssh -p 22" {
				t.Errorf("ssh transport = %q, want ssh -p 22", args[i+1])
			}
			return
		}
	}
	t.Fatal("no -e flag in rsync args")
}

func TestTransferUnknownMethod(t *testing.T) {
	err := testExecutor().Transfer(context.Background(), &domain.Site{
		Name:         "x",
		DeployMethod: "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var terr *TransferError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransferError, got %T", err)
	}
	if terr.Site != "x" {
		t.Errorf("error site = %q, want x", terr.Site)
	}
}

// setupGitRepos creates a work repo with one committed file and a bare repo
// wired up as its push target.
func setupGitRepos(t *testing.T) (work string) {
	t.Helper()

	root := t.TempDir()
	work = filepath.Join(root, "work")
	bare := filepath.Join(root, "remote.git")

	run := func(dir string, args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run(root, "init", "--bare", "-b", "main", bare)
	run(root, "init", "-b", "main", work)
	run(work, "config", "user.email", "deploy@example.com")
	run(work, "config", "user.name", "deploy")
	run(work, "remote", "add", "origin", bare)

	if err := os.WriteFile(filepath.Join(work, "index.html"), []byte("<h1>v1</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	run(work, "add", "-A")
	run(work, "commit", "-m", "initial")

	return work
}

func TestTransferGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	work := setupGitRepos(t)
	site := &domain.Site{
		Name:         "docs",
		LocalPath:    work,
		DeployMethod: domain.MethodGit,
		GitRemote:    "origin",
		GitBranch:    "main",
	}
	x := testExecutor()

	// Dirty tree: commit + push.
	if err := os.WriteFile(filepath.Join(work, "index.html"), []byte("<h1>v2</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := x.Transfer(context.Background(), site); err != nil {
		t.Fatalf("first transfer failed: %v", err)
	}

	// Clean tree: an empty diff must not fail the deployment.
	if err := x.Transfer(context.Background(), site); err != nil {
		t.Fatalf("second (no-op) transfer failed: %v", err)
	}
}
