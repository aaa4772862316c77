package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmartz/revgraph/internal/config"
	"github.com/fmartz/revgraph/pkg/cache"
	"github.com/fmartz/revgraph/pkg/object"
	"github.com/fmartz/revgraph/pkg/source"
)

// loadFlags are the source options shared by every command that needs
// a filled cache.
type loadFlags struct {
	dir        string
	configPath string
	useGoGit   bool
	verbose    bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "C", ".", "repository directory")
	cmd.Flags().StringVar(&f.configPath, "config", config.DefaultPath(), "config file path")
	cmd.Flags().BoolVar(&f.useGoGit, "go-git", false, "read the repository with go-git instead of the git binary")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log cache activity to stderr")
}

// loadCache fills a fresh cache from the configured source and returns
// it together with the head hash.
func (f *loadFlags) loadCache(cmd *cobra.Command) (*cache.Cache, object.Hash, *config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, "", nil, err
	}

	c := cache.New()
	if f.verbose {
		c.SetLogger(log.New(os.Stderr, "revgraph: ", 0))
	}

	var src source.Source
	if f.useGoGit {
		src = &source.GoGit{Dir: f.dir}
	} else {
		src = &source.GitCLI{Dir: f.dir, Bin: cfg.GitBin}
	}

	head, err := src.Load(cmd.Context(), c)
	if err != nil {
		return nil, "", nil, err
	}
	return c, head, cfg, nil
}
