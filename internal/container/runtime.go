// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs external rasterization tools, either inside a
// docker/podman container or directly on the host.
package container

import (
	"fmt"
	"io"
	"os/exec"
)

const (
	binDocker = "docker"
	binPodman = "podman"
	nameHost  = "host"
)

// Runtime provides the operations needed to run a tool image: checking
// availability, verifying the image, and running it.
type Runtime interface {
	// Name returns the runtime name ("docker", "podman" or "host").
	Name() string

	// Available reports whether the runtime is operational.
	Available() bool

	// ImageExists checks whether the named image exists locally. For the
	// host runtime the image is a binary looked up on PATH.
	// Returns nil when the image is found, or an error describing the failure.
	ImageExists(image string) error

	// Run executes image with args, piping stdin and stdout.
	Run(image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// runtime implements Runtime for a specific container binary. Both Docker
// and Podman share the same logic; they differ only in binary name and the
// subcommand used to check image existence.
type runtime struct {
	bin           string
	imageCheckCmd []string // e.g. ["image", "inspect"] for docker
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	full := make([]string, 0, len(args)+4)
	full = append(full, "run", "--rm", "-i", image)
	full = append(full, args...)
	if err := r.exec.RunPiped(r.bin, full, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

// hostRuntime runs tools installed on the host. The image is the binary.
type hostRuntime struct {
	exec executor
}

func (h *hostRuntime) Name() string { return nameHost }

func (h *hostRuntime) Available() bool { return true }

func (h *hostRuntime) ImageExists(image string) error {
	if _, err := h.exec.LookPath(image); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", image, err)
	}
	return nil
}

func (h *hostRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	if err := h.exec.RunPiped(image, args, stdin, stdout); err != nil {
		return fmt.Errorf("running %s: %w", image, err)
	}
	return nil
}

var defaultExec = &osExecutor{}

// Host returns a runtime that executes binaries from PATH directly.
func Host() Runtime {
	return &hostRuntime{exec: defaultExec}
}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available() {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available() {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
