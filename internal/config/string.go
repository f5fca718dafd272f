package config

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/scriptsvc/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (s *Service) String() string {
	return ConfigTree(s)
}

// ConfigTree renders the configuration as a styled tree.
func ConfigTree(s *Service) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Service %s (%s)", s.Name(), VersionLatest)))

	svc := fancy.BranchNode("Service", s.DisplayName())
	if s.Description() != "" {
		svc.Child(fmt.Sprintf("Description: %s", s.Description()))
	}
	svc.Child(fmt.Sprintf("Stop timeout: %s", s.StopTimeout()))
	t.Child(svc)

	script := fancy.BranchNode("Script", fancy.EngineText(string(s.Engine())))
	script.Child(fmt.Sprintf("Path: %s", fancy.PathText(s.ScriptPath())))
	if args := s.Args(); len(args) > 0 {
		script.Child(fmt.Sprintf("Args: %s", strings.Join(args, " ")))
	}
	for _, p := range s.SearchPaths() {
		script.Child(fmt.Sprintf("Search: %s", fancy.PathText(p)))
	}
	if s.InitScript() != "" {
		script.Child(fmt.Sprintf("Init: %s", fancy.TruncateString(s.InitScript(), 40)))
	}
	t.Child(script)

	lc := s.Logging()
	t.Child(lc.ToTree())

	if s.DiagnosticsEnabled() {
		d := s.Diagnostics()
		diag := fancy.BranchNode("Diagnostics", d.Listen)
		diag.Child(fmt.Sprintf("Read timeout: %s", d.ReadTimeout))
		diag.Child(fmt.Sprintf("Write timeout: %s", d.WriteTimeout))
		t.Child(diag)
	}

	return t.String()
}
