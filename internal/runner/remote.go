package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

const sshDialTimeout = 30 * time.Second

// RunRemote executes a hook command on the site's host over SSH and returns
// captured stdout. The same timeout policy as local commands applies.
func (e *Exec) RunRemote(ctx context.Context, site *domain.Site, command string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.log.Debug("running remote command",
		logger.String("site", site.Name),
		logger.String("host", site.SSHHost),
		logger.String("cmd", command))

	client, err := dialSSH(site)
	if err != nil {
		return "", &ExecError{Cmd: command, Err: err}
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", &ExecError{Cmd: command, Err: fmt.Errorf("failed to open ssh session: %w", err)}
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-cctx.Done():
		// Closing the connection tears the session down; the remote side
		// receives EOF and the goroutine above unblocks.
		_ = client.Close()
		return "", fmt.Errorf("%w after %s: %s@%s: %s", ErrTimeout, e.timeout, site.SSHUser, site.SSHHost, command)
	case err := <-done:
		if err == nil {
			return stdout.String(), nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandError{
				Cmd:      command,
				ExitCode: exitErr.ExitStatus(),
				Stderr:   stderr.String(),
			}
		}
		return "", &ExecError{Cmd: command, Err: err}
	}
}

func dialSSH(site *domain.Site) (*ssh.Client, error) {
	auth, err := authMethods(site)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:    site.SSHUser,
		Auth:    auth,
		Timeout: sshDialTimeout,
		// Hosts come from the operator's own config; strict host key
		// checking is left to the environment's known_hosts via rsync/ssh
		// for transfers.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
	}

	addr := fmt.Sprintf("%s:%d", site.SSHHost, site.SSHPortOrDefault())
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh connection to %s failed: %w", addr, err)
	}
	return client, nil
}

func authMethods(site *domain.Site) ([]ssh.AuthMethod, error) {
	var auth []ssh.AuthMethod

	if site.SSHKeyFile != "" {
		key, err := os.ReadFile(site.SSHKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ssh key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if site.SSHPassword != "" {
		auth = append(auth, ssh.Password(site.SSHPassword))
	}

	if len(auth) == 0 {
		return nil, fmt.Errorf("site %s: no ssh credentials (ssh_key_file or ssh_password)", site.Name)
	}
	return auth, nil
}
