package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foundry/internal/adapter/llm"
	"foundry/internal/domain"
	"foundry/internal/infra/config"
	"foundry/internal/infra/logger"
	"foundry/internal/infra/tracer"
	"foundry/internal/usecase"
	"foundry/internal/usecase/agents"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "agents":
		if err := runAgents(); err != nil {
			fmt.Fprintf(os.Stderr, "agents: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	case "run":
		if err := runTask(); err != nil {
			fmt.Fprintf(os.Stderr, "run: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'foundry --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`foundry - Capability-based agent registry

USAGE:
    foundry COMMAND [FLAGS]

COMMANDS:
    agents      List the registered agent types and their capabilities
    config      Print the effective configuration and any validation problems
    run         Execute one task with a registered agent

FLAGS (config, run):
    -dir PATH          Config directory (default: ./config)
    -profile NAME      Config profile (default: default)
    -env NAME          Environment: development, testing, production

FLAGS (run):
    -type KEY          Agent type to run (required)
    -input JSON        Task input as a JSON object (required)

CONFIGURATION:
    Files:       <dir>/<profile>.yaml plus <dir>/<profile>.<env>.yaml
    Environment: FOUNDRY_ENV, FOUNDRY_DEBUG, FOUNDRY_LOG_LEVEL,
                 FOUNDRY_WORKSPACE, OPENAI_API_KEY, ANTHROPIC_API_KEY,
                 GEMINI_API_KEY

EXAMPLES:
    foundry agents
    foundry config -env production
    foundry run -type research -input '{"query":"current Go release"}'`)
}

// loadConfig loads the effective configuration for the given flag set.
func loadConfig(dir, profile, env string) (*config.Config, error) {
	mgr := config.NewManager(dir, logger.NewDefault())
	return mgr.Load(profile, env)
}

func runAgents() error {
	log := logger.NewDefault()
	reg := usecase.NewRegistry(log)
	// Listing needs no live provider; descriptors carry all the metadata.
	if err := agents.RegisterAll(reg, nil, log); err != nil {
		return err
	}

	descriptors := reg.Describe()
	for _, key := range reg.List() {
		d := descriptors[key]
		fmt.Printf("%-16s %s\n", d.TypeKey, d.Description)
		fmt.Printf("%-16s capabilities: %v, input: %s\n", "", d.Capabilities, d.InputShape)
	}
	return nil
}

func runConfig() error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	dir := fs.String("dir", "./config", "config directory")
	profile := fs.String("profile", "default", "config profile")
	env := fs.String("env", "", "environment override")
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}

	cfg, err := loadConfig(*dir, *profile, *env)
	if err != nil {
		return err
	}

	// Credentials never reach stdout.
	out := cfg.Clone()
	for name, mc := range out.Models {
		mc.APIKey = ""
		out.Models[name] = mc
	}
	m, err := out.ToMap()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if problems := config.Validate(cfg); len(problems) > 0 {
		fmt.Fprintln(os.Stderr, "\nvalidation problems:")
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
	}
	return nil
}

func runTask() error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dir := fs.String("dir", "./config", "config directory")
	profile := fs.String("profile", "default", "config profile")
	env := fs.String("env", "", "environment override")
	typeKey := fs.String("type", "", "agent type to run")
	inputJSON := fs.String("input", "", "task input as a JSON object")
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}
	if *typeKey == "" || *inputJSON == "" {
		return fmt.Errorf("both -type and -input are required")
	}

	var input domain.TaskInput
	if err := json.Unmarshal([]byte(*inputJSON), &input); err != nil {
		return fmt.Errorf("parse -input: %w", err)
	}

	cfg, err := loadConfig(*dir, *profile, *env)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	modelName := cfg.Agents.DefaultModel
	mc, ok := cfg.Models[modelName]
	if !ok {
		return fmt.Errorf("default model %q not configured", modelName)
	}
	provider, err := llm.NewResilientProvider(modelName, mc, log)
	if err != nil {
		return err
	}

	reg := usecase.NewRegistry(log)
	if err := agents.RegisterAll(reg, provider, log); err != nil {
		return err
	}

	agent, err := reg.Create(*typeKey, map[string]any{"model": mc.Model})
	if err != nil {
		return err
	}

	resp := agent.SafeExecute(ctx, input)
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if !resp.Success {
		os.Exit(1)
	}
	return nil
}
