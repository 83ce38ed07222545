package cmd

import (
	"fmt"
	"os"

	"github.com/marchcraft/drover/pkg/orchestrator"
	"github.com/marchcraft/drover/pkg/pipeline"
	"github.com/marchcraft/drover/pkg/reasoning"
	"github.com/marchcraft/drover/pkg/resolver"
	"github.com/marchcraft/drover/pkg/store"
)

// openStore opens the backlog directory named by --dir. The directory
// must already be initialized with `drover init`.
func openStore() (*store.FileStore, error) {
	info, err := os.Stat(backlogDir)
	if err != nil {
		return nil, fmt.Errorf("backlog directory not found: %s", backlogDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", backlogDir)
	}
	return store.NewFileStore(backlogDir), nil
}

// buildEngine wires the full engine stack over a file store: resolver,
// reasoning client, pipeline, orchestrator. The Anthropic API key is
// read from the environment.
func buildEngine(fs *store.FileStore) (*orchestrator.Orchestrator, error) {
	client, err := reasoning.NewAnthropicClient("")
	if err != nil {
		return nil, err
	}

	res := resolver.New(fs, fs)
	pipe := pipeline.New(fs, fs, fs.Questions(), client)
	orch := orchestrator.New(fs, fs, res, pipe, &orchestrator.Config{
		Logger: orchestrator.NewDefaultLogger(),
	})
	return orch, nil
}
