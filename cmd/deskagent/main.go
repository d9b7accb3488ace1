package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/oakmund/deskagent/internal/config"
	"github.com/oakmund/deskagent/internal/provider"
	"github.com/oakmund/deskagent/internal/runner"
	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/telemetry"
	"github.com/oakmund/deskagent/internal/workspace"
	"github.com/oakmund/deskagent/memory"
	"github.com/oakmund/deskagent/tools"
)

// app wires the sandbox, workspace, tool dispatcher and model runner for one
// session. Both the plain CLI loop and the TUI run on top of it; the TUI's
// direct file commands go through ws, never through the dispatcher.
type app struct {
	root        string
	ws          *workspace.Workspace
	disp        *tools.Dispatcher
	runner      *runner.Runner
	model       anthropic.Model
	persistPath string
}

func main() {
	var (
		rootFlag string
		useCLI   bool
	)
	flag.StringVar(&rootFlag, "root", "", "sandbox root directory (default: cwd, or DESKAGENT_ROOT)")
	flag.BoolVar(&useCLI, "cli", false, "run the plain terminal loop instead of the TUI")
	flag.Parse()

	a, err := newApp(rootFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if useCLI {
		if err := runCLI(a); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}
	runTUI(a)
}

func newApp(rootFlag string) (*app, error) {
	root := strings.TrimSpace(rootFlag)
	if root == "" {
		root = strings.TrimSpace(os.Getenv("DESKAGENT_ROOT"))
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	proj, err := config.LoadProject(root)
	if err != nil {
		return nil, err
	}

	guard, err := sandbox.New(root)
	if err != nil {
		return nil, err
	}
	if len(proj.Deny) > 0 {
		guard.Deny(proj.Deny...)
	}
	telemetry.SetRoot(guard.Root())
	ws := workspace.New(guard)

	apiKey, user, err := resolveAPIKey()
	if err != nil {
		return nil, err
	}

	defs := tools.NewRegistryWith(ws, tools.RegistryOptions{ReadLimit: proj.ReadLimit})
	disp := tools.NewDispatcher(defs)
	r := runner.New(provider.NewClient(apiKey), disp)

	return &app{
		root:        guard.Root(),
		ws:          ws,
		disp:        disp,
		runner:      r,
		model:       pickModel(proj, user),
		persistPath: memory.DefaultPath(guard.Root()),
	}, nil
}

// resolveAPIKey checks the environment, then the user config, then prompts
// on the terminal, offering to save the key for next time.
func resolveAPIKey() (string, config.User, error) {
	user, err := config.LoadUser()
	if err != nil {
		return "", config.User{}, err
	}
	if k := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); k != "" {
		return k, user, nil
	}
	if k := strings.TrimSpace(user.AnthropicAPIKey); k != "" {
		return k, user, nil
	}

	fmt.Print("Anthropic API key: ")
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return "", user, fmt.Errorf("no API key provided")
	}
	key := strings.TrimSpace(sc.Text())
	if key == "" {
		return "", user, fmt.Errorf("no API key provided")
	}

	fmt.Print("Save to ", displayUserPath(), " for next time? [y/N]: ")
	if sc.Scan() && strings.EqualFold(strings.TrimSpace(sc.Text()), "y") {
		user.AnthropicAPIKey = key
		if err := config.SaveUser(user); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save config: %v\n", err)
		}
	}
	return key, user, nil
}

func displayUserPath() string {
	p, err := config.UserPath()
	if err != nil {
		return filepath.Join("~", ".deskagent", "config.json")
	}
	return p
}

func pickModel(proj config.Project, user config.User) anthropic.Model {
	if m := strings.TrimSpace(proj.Model); m != "" {
		return anthropic.Model(m)
	}
	if m := strings.TrimSpace(user.Model); m != "" {
		return anthropic.Model(m)
	}
	return provider.DefaultModel
}
