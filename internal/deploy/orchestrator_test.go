package deploy

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

type fakeTransfer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error // site name -> error
}

func (f *fakeTransfer) Transfer(_ context.Context, site *domain.Site) error {
	f.mu.Lock()
	f.calls = append(f.calls, site.Name)
	f.mu.Unlock()
	if f.fail != nil {
		return f.fail[site.Name]
	}
	return nil
}

func (f *fakeTransfer) called(site string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == site {
			return true
		}
	}
	return false
}

type fakeHooks struct {
	mu      sync.Mutex
	local   []string
	remote  []string
	failOn  string
}

func (f *fakeHooks) RunShell(_ context.Context, _ string, command string) (string, error) {
	f.mu.Lock()
	f.local = append(f.local, command)
	f.mu.Unlock()
	if command == f.failOn {
		return "", errors.New("command failed (exit 1): boom")
	}
	return "", nil
}

func (f *fakeHooks) RunRemote(_ context.Context, _ *domain.Site, command string) (string, error) {
	f.mu.Lock()
	f.remote = append(f.remote, command)
	f.mu.Unlock()
	if command == f.failOn {
		return "", errors.New("command failed (exit 1): boom")
	}
	return "", nil
}

type fakeHealth struct {
	mu     sync.Mutex
	calls  int
	status domain.HealthStatus
	code   int
}

func (f *fakeHealth) CheckSite(_ context.Context, site *domain.Site) *domain.HealthResult {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if site.HealthCheckURL == "" {
		return nil
	}
	return &domain.HealthResult{
		Site:       site.Name,
		URL:        site.HealthCheckURL,
		Status:     f.status,
		StatusCode: f.code,
	}
}

func sshSite(t *testing.T, name string) domain.Site {
	t.Helper()
	return domain.Site{
		Name:         name,
		LocalPath:    t.TempDir(),
		RemotePath:   "/var/www/" + name,
		DeployMethod: domain.MethodSSH,
		SSHHost:      name + ".example.com",
		SSHUser:      "deploy",
	}
}

func newTestOrchestrator(tr Transferer, hooks HookRunner, hc HealthChecker, opts Options) *Orchestrator {
	return New(tr, hooks, hc, nil, logger.New("error", false), opts)
}

func TestDeployAllSequentialOrder(t *testing.T) {
	tr := &fakeTransfer{}
	o := newTestOrchestrator(tr, &fakeHooks{}, &fakeHealth{status: domain.HealthUp}, Options{})

	sites := []domain.Site{sshSite(t, "a"), sshSite(t, "b"), sshSite(t, "c")}
	report := o.DeployAll(context.Background(), sites)

	if len(report.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(report.Results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if report.Results[i].Site != want {
			t.Errorf("results[%d] = %s, want %s (input order)", i, report.Results[i].Site, want)
		}
		if report.Results[i].Status != domain.StatusSuccess {
			t.Errorf("site %s status = %s", want, report.Results[i].Status)
		}
	}
	if report.Succeeded != 3 || report.Failed != 0 {
		t.Errorf("counts = %d/%d, want 3/0", report.Succeeded, report.Failed)
	}
}

func TestMissingLocalPathNeverTransfers(t *testing.T) {
	tr := &fakeTransfer{}
	o := newTestOrchestrator(tr, &fakeHooks{}, &fakeHealth{}, Options{})

	site := sshSite(t, "ghost")
	site.LocalPath = "/definitely/not/here"

	result := o.DeploySite(context.Background(), &site)

	if result.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", result.Status)
	}
	if !strings.Contains(result.Error, "local path not found") {
		t.Errorf("error = %q, want a local path not found message", result.Error)
	}
	if tr.called("ghost") {
		t.Error("transfer executor was invoked despite failed validation")
	}
}

func TestFailingPreDeployBlocksTransfer(t *testing.T) {
	tr := &fakeTransfer{}
	hooks := &fakeHooks{failOn: "npm run build"}
	o := newTestOrchestrator(tr, hooks, &fakeHealth{}, Options{})

	site := sshSite(t, "blog")
	site.PreDeploy = []string{"npm run build", "npm run lint"}

	result := o.DeploySite(context.Background(), &site)

	if result.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", result.Status)
	}
	if tr.called("blog") {
		t.Error("transfer executor was invoked after failing pre-deploy hook")
	}
	// First failure aborts: the second hook never runs.
	if len(hooks.local) != 1 {
		t.Errorf("local hooks run = %v, want only the first", hooks.local)
	}
}

func TestFailingPostDeploySkipsHealthCheck(t *testing.T) {
	hooks := &fakeHooks{failOn: "systemctl reload nginx"}
	hc := &fakeHealth{status: domain.HealthUp}
	o := newTestOrchestrator(&fakeTransfer{}, hooks, hc, Options{})

	site := sshSite(t, "blog")
	site.PostDeploy = []string{"systemctl reload nginx"}
	site.HealthCheckURL = "https://blog.example.com/health"

	result := o.DeploySite(context.Background(), &site)

	if result.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", result.Status)
	}
	if hc.calls != 0 {
		t.Error("health check ran for a site that failed post-deploy")
	}
}

func TestHealthCheckIsAdvisory(t *testing.T) {
	hc := &fakeHealth{status: domain.HealthDown, code: 503}
	o := newTestOrchestrator(&fakeTransfer{}, &fakeHooks{}, hc, Options{})

	site := sshSite(t, "blog")
	site.HealthCheckURL = "https://blog.example.com/health"

	result := o.DeploySite(context.Background(), &site)

	if result.Status != domain.StatusSuccess {
		t.Fatalf("status = %s; a DOWN health check must not fail the site", result.Status)
	}
	if hc.calls != 1 {
		t.Errorf("health check calls = %d, want 1", hc.calls)
	}
}

func TestDeployAllOneBadSite(t *testing.T) {
	tr := &fakeTransfer{}
	o := newTestOrchestrator(tr, &fakeHooks{}, &fakeHealth{status: domain.HealthUp}, Options{})

	sites := []domain.Site{sshSite(t, "a"), sshSite(t, "b"), sshSite(t, "c")}
	sites[1].LocalPath = "/missing/site/b"

	report := o.DeployAll(context.Background(), sites)

	if report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("counts = %d/%d, want 2 succeeded 1 failed", report.Succeeded, report.Failed)
	}

	failures := report.Failures()
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	if failures[0].Site != "b" {
		t.Errorf("failed site = %s, want b", failures[0].Site)
	}
	if !strings.Contains(failures[0].Error, "local path not found") {
		t.Errorf("failure error = %q", failures[0].Error)
	}

	// The bad site must not have stopped the others.
	if !tr.called("a") || !tr.called("c") {
		t.Error("healthy sites were not attempted")
	}
}

func TestDeployAllParallel(t *testing.T) {
	tr := &fakeTransfer{}
	o := newTestOrchestrator(tr, &fakeHooks{}, &fakeHealth{status: domain.HealthUp},
		Options{Parallel: true, Workers: 3})

	sites := make([]domain.Site, 6)
	for i := range sites {
		sites[i] = sshSite(t, string(rune('a'+i)))
	}

	report := o.DeployAll(context.Background(), sites)

	// Completion order is unspecified; only the aggregate is contractual.
	if len(report.Results) != 6 {
		t.Fatalf("got %d results, want 6", len(report.Results))
	}
	if report.Succeeded != 6 {
		t.Errorf("succeeded = %d, want 6", report.Succeeded)
	}
	seen := make(map[string]bool)
	for _, r := range report.Results {
		if seen[r.Site] {
			t.Errorf("duplicate result for site %s", r.Site)
		}
		seen[r.Site] = true
	}
}

type fakeSnapshotter struct {
	calls int
	err   error
}

func (f *fakeSnapshotter) Create(string, string) (*domain.Backup, error) {
	f.calls++
	return &domain.Backup{ID: "x"}, f.err
}

func TestBackupBeforeDeploy(t *testing.T) {
	snap := &fakeSnapshotter{}
	tr := &fakeTransfer{}
	o := New(tr, &fakeHooks{}, &fakeHealth{}, snap, logger.New("error", false),
		Options{BackupBeforeDeploy: true})

	site := sshSite(t, "blog")
	if result := o.DeploySite(context.Background(), &site); result.Status != domain.StatusSuccess {
		t.Fatalf("deploy failed: %s", result.Error)
	}
	if snap.calls != 1 {
		t.Errorf("snapshot calls = %d, want 1", snap.calls)
	}

	snap.err = errors.New("disk full")
	result := o.DeploySite(context.Background(), &site)
	if result.Status != domain.StatusFailed {
		t.Error("failed snapshot must abort the site")
	}
	if tr.called("blog") && len(tr.calls) > 1 {
		t.Error("transfer ran after failed snapshot")
	}
}
