package wrapper

import "strings"

// DockerSpec describes one `docker run` invocation. The wrapper shells out
// to the docker CLI; container semantics stay with the runtime.
type DockerSpec struct {
	Image       string
	Command     []string
	Detach      bool
	Interactive bool
	AutoRemove  bool
	Name        string
	Env         []string // KEY=VALUE assignments
	EnvFile     string
	Volumes     []string // host:container bind specs
	Ports       []string // host:container mappings
	Network     string
	User        string
	WorkDir     string
	Entrypoint  string
	ExtraArgs   []string // passed through verbatim before the image
}

// Args assembles the argv passed to the docker binary.
func (s *DockerSpec) Args() []string {
	args := []string{"run"}
	if s.Detach {
		args = append(args, "-d")
	}
	if s.Interactive {
		args = append(args, "-i")
	}
	if s.AutoRemove {
		args = append(args, "--rm")
	}
	if s.Name != "" {
		args = append(args, "--name", s.Name)
	}
	for _, e := range s.Env {
		args = append(args, "-e", e)
	}
	if s.EnvFile != "" {
		args = append(args, "--env-file", s.EnvFile)
	}
	for _, v := range s.Volumes {
		args = append(args, "-v", v)
	}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	if s.Network != "" {
		args = append(args, "--network", s.Network)
	}
	if s.User != "" {
		args = append(args, "-u", s.User)
	}
	if s.WorkDir != "" {
		args = append(args, "-w", s.WorkDir)
	}
	if s.Entrypoint != "" {
		args = append(args, "--entrypoint", s.Entrypoint)
	}
	args = append(args, s.ExtraArgs...)
	args = append(args, s.Image)
	args = append(args, s.Command...)
	return args
}

// DefaultPrefix derives a log prefix from the image reference, stripping
// the registry path and any tag or digest:
// "ghcr.io/acme/minio:latest" -> "minio".
func (s *DockerSpec) DefaultPrefix() string {
	name := s.Image
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "container"
	}
	return name
}
