package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/wrapper"
)

var (
	dockerDetach      bool
	dockerInteractive bool
	dockerAutoRemove  bool
	dockerName        string
	dockerEnv         []string
	dockerEnvFile     string
	dockerVolumes     []string
	dockerPorts       []string
	dockerNetwork     string
	dockerUser        string
	dockerWorkdir     string
	dockerEntrypoint  string
	dockerExtraArgs   []string
)

var dockerCmd = &cobra.Command{
	Use:   "docker [flags] -- <image> [command...]",
	Short: "Run a container through the wrapper",
	Long: `Docker launches a container via the docker CLI with the same logging,
summary, retention, and notification pipeline as run. The log prefix
defaults to the image basename with registry path and tag stripped.

In detached mode (--detach) the wrapper exits with the exit code of the
docker launch command itself: the container keeps running independently and
its eventual exit status is not tracked.

Example:
  runwrap docker --rm -- alpine:3.20 echo hello
  runwrap docker --detach --name minio -p 9000:9000 -v /srv/minio:/data -- minio/minio server /data
  runwrap docker --env POSTGRES_PASSWORD=secret --network backend -- postgres:16`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocker,
}

func init() {
	dockerCmd.Flags().BoolVarP(&dockerDetach, "detach", "d", false, "run the container in the background")
	dockerCmd.Flags().BoolVarP(&dockerInteractive, "interactive", "i", false, "keep the container's stdin open")
	dockerCmd.Flags().BoolVar(&dockerAutoRemove, "rm", false, "remove the container when it exits")
	dockerCmd.Flags().StringVar(&dockerName, "name", "", "container name")
	dockerCmd.Flags().StringArrayVarP(&dockerEnv, "env", "e", nil, "environment variable KEY=VALUE (repeatable)")
	dockerCmd.Flags().StringVar(&dockerEnvFile, "env-file", "", "read environment variables from a file")
	dockerCmd.Flags().StringArrayVarP(&dockerVolumes, "volume", "v", nil, "volume bind spec host:container (repeatable)")
	dockerCmd.Flags().StringArrayVarP(&dockerPorts, "publish", "p", nil, "port mapping host:container (repeatable)")
	dockerCmd.Flags().StringVar(&dockerNetwork, "network", "", "container network")
	dockerCmd.Flags().StringVarP(&dockerUser, "user", "u", "", "user inside the container")
	dockerCmd.Flags().StringVarP(&dockerWorkdir, "workdir", "w", "", "working directory inside the container")
	dockerCmd.Flags().StringVar(&dockerEntrypoint, "entrypoint", "", "override the image entrypoint")
	dockerCmd.Flags().StringArrayVar(&dockerExtraArgs, "docker-arg", nil, "extra docker run argument, passed through verbatim (repeatable)")
}

func runDocker(cmd *cobra.Command, args []string) error {
	spec := &wrapper.DockerSpec{
		Image:       args[0],
		Command:     args[1:],
		Detach:      dockerDetach,
		Interactive: dockerInteractive,
		AutoRemove:  dockerAutoRemove,
		Name:        dockerName,
		Env:         dockerEnv,
		EnvFile:     dockerEnvFile,
		Volumes:     dockerVolumes,
		Ports:       dockerPorts,
		Network:     dockerNetwork,
		User:        dockerUser,
		WorkDir:     dockerWorkdir,
		Entrypoint:  dockerEntrypoint,
		ExtraArgs:   dockerExtraArgs,
	}

	mergeConfig(cmd)
	if logPrefix == "" {
		logPrefix = spec.DefaultPrefix()
	}

	argv := append([]string{"docker"}, spec.Args()...)
	return executeWrapped(argv, "")
}
