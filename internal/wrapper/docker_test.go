package wrapper

import (
	"reflect"
	"testing"
)

// TestDockerSpec_Args checks the argv assembly order: runtime options,
// extra args, image, command.
func TestDockerSpec_Args(t *testing.T) {
	spec := &DockerSpec{
		Image:       "minio/minio:latest",
		Command:     []string{"server", "/data"},
		Detach:      true,
		AutoRemove:  true,
		Name:        "minio",
		Env:         []string{"MINIO_ROOT_USER=admin", "MINIO_ROOT_PASSWORD=secret"},
		EnvFile:     "/etc/minio.env",
		Volumes:     []string{"/srv/minio:/data"},
		Ports:       []string{"9000:9000", "9001:9001"},
		Network:     "backend",
		User:        "1000:1000",
		WorkDir:     "/data",
		Entrypoint:  "/usr/bin/minio",
		ExtraArgs:   []string{"--memory=512m"},
	}

	want := []string{
		"run", "-d", "--rm", "--name", "minio",
		"-e", "MINIO_ROOT_USER=admin", "-e", "MINIO_ROOT_PASSWORD=secret",
		"--env-file", "/etc/minio.env",
		"-v", "/srv/minio:/data",
		"-p", "9000:9000", "-p", "9001:9001",
		"--network", "backend",
		"-u", "1000:1000",
		"-w", "/data",
		"--entrypoint", "/usr/bin/minio",
		"--memory=512m",
		"minio/minio:latest",
		"server", "/data",
	}

	if got := spec.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("Args mismatch:\nexpected %v\ngot      %v", want, got)
	}
}

// TestDockerSpec_ArgsMinimal: a bare image produces just "run <image>".
func TestDockerSpec_ArgsMinimal(t *testing.T) {
	spec := &DockerSpec{Image: "alpine"}
	want := []string{"run", "alpine"}
	if got := spec.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDockerSpec_DefaultPrefix(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"alpine", "alpine"},
		{"alpine:3.20", "alpine"},
		{"minio/minio:latest", "minio"},
		{"ghcr.io/acme/nessie:0.99", "nessie"},
		{"registry:5000/team/app@sha256:abcd", "app"},
		{"", "container"},
	}

	for _, tt := range tests {
		spec := &DockerSpec{Image: tt.image}
		if got := spec.DefaultPrefix(); got != tt.want {
			t.Errorf("DefaultPrefix(%q): expected %q, got %q", tt.image, tt.want, got)
		}
	}
}
