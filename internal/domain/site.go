package domain

import "fmt"

// DeployMethod selects the transport used to push a site to its host.
type DeployMethod string

const (
	MethodFTP DeployMethod = "ftp"
	MethodSSH DeployMethod = "ssh"
	MethodGit DeployMethod = "git"
)

// Site describes one independently deployable website.
// Which credential fields are required depends on DeployMethod; that is
// enforced by Validate (at deploy time), not when the config is loaded.
type Site struct {
	Name         string       `yaml:"name" json:"name"`
	LocalPath    string       `yaml:"local_path" json:"local_path"`
	RemotePath   string       `yaml:"remote_path" json:"remote_path"`
	DeployMethod DeployMethod `yaml:"deploy_method" json:"deploy_method"`

	// FTP
	FTPHost     string `yaml:"ftp_host,omitempty" json:"ftp_host,omitempty"`
	FTPPort     int    `yaml:"ftp_port,omitempty" json:"ftp_port,omitempty"`
	FTPUser     string `yaml:"ftp_user,omitempty" json:"ftp_user,omitempty"`
	FTPPassword string `yaml:"ftp_password,omitempty" json:"-"`

	// SSH (used for rsync transfer and for remote post-deploy hooks)
	SSHHost     string `yaml:"ssh_host,omitempty" json:"ssh_host,omitempty"`
	SSHPort     int    `yaml:"ssh_port,omitempty" json:"ssh_port,omitempty"`
	SSHUser     string `yaml:"ssh_user,omitempty" json:"ssh_user,omitempty"`
	SSHPassword string `yaml:"ssh_password,omitempty" json:"-"`
	SSHKeyFile  string `yaml:"ssh_key_file,omitempty" json:"ssh_key_file,omitempty"`

	// Git
	GitRemote string `yaml:"git_remote,omitempty" json:"git_remote,omitempty"`
	GitBranch string `yaml:"git_branch,omitempty" json:"git_branch,omitempty"`

	PreDeploy      []string `yaml:"pre_deploy,omitempty" json:"pre_deploy,omitempty"`
	PostDeploy     []string `yaml:"post_deploy,omitempty" json:"post_deploy,omitempty"`
	HealthCheckURL string   `yaml:"health_check_url,omitempty" json:"health_check_url,omitempty"`
}

// ValidationError is a site-level configuration problem. It aborts that
// site's deployment only, never the whole run.
type ValidationError struct {
	Site   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("site %s: %s", e.Site, e.Reason)
}

// Validate checks that the credential fields required by the site's deploy
// method are present. The local path existence check is separate (it is the
// first step of the deployment state machine).
func (s *Site) Validate() error {
	switch s.DeployMethod {
	case MethodFTP:
		if s.FTPHost == "" || s.FTPUser == "" {
			return &ValidationError{Site: s.Name, Reason: "ftp_host and ftp_user are required for ftp deploys"}
		}
	case MethodSSH:
		if s.SSHHost == "" || s.SSHUser == "" {
			return &ValidationError{Site: s.Name, Reason: "ssh_host and ssh_user are required for ssh deploys"}
		}
	case MethodGit:
		if s.GitRemote == "" || s.GitBranch == "" {
			return &ValidationError{Site: s.Name, Reason: "git_remote and git_branch are required for git deploys"}
		}
	default:
		return &ValidationError{Site: s.Name, Reason: fmt.Sprintf("unknown deploy method: %q", s.DeployMethod)}
	}
	return nil
}

// SSHPortOrDefault returns the configured SSH port, defaulting to 22.
func (s *Site) SSHPortOrDefault() int {
	if s.SSHPort > 0 {
		return s.SSHPort
	}
	return 22
}

// FTPPortOrDefault returns the configured FTP port, defaulting to 21.
func (s *Site) FTPPortOrDefault() int {
	if s.FTPPort > 0 {
		return s.FTPPort
	}
	return 21
}
