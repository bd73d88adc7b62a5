package shell

import (
	"strings"
)

// DefaultPrompt is used when no prompt is configured.
const DefaultPrompt = "mini-shell> "

// Prompt expands the configured prompt.
//
// \u is replaced with the user name, \h with the host name, \w with the
// working directory (the home directory shown as ~) and \$ with # for root or
// $ for everyone else.
func (s *Shell) Prompt() string {
	prompt := s.cfg.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	if strings.Contains(prompt, `\u`) {
		prompt = strings.ReplaceAll(prompt, `\u`, s.sys.Username())
	}

	if strings.Contains(prompt, `\h`) {
		host, _ := s.sys.Hostname()
		prompt = strings.ReplaceAll(prompt, `\h`, host)
	}

	if strings.Contains(prompt, `\w`) {
		pwd, _ := s.sys.Getwd()
		home, _ := s.sys.UserHomeDir()
		if home != "" && (pwd == home || strings.HasPrefix(pwd, home+"/")) {
			pwd = "~" + strings.TrimPrefix(pwd, home)
		}
		prompt = strings.ReplaceAll(prompt, `\w`, pwd)
	}

	if s.sys.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}
