package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2cards"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

const progName = "md2cards"

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments, empty if none
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"preset": {Values: []string{"small", "medium", "large"}},
	"format": {Values: []string{"png", "html"}},
	"oracle": {Values: []string{"font", "heuristic"}},
	"theme":  {Values: md2cards.Themes()},

	"config": {FileGlob: "*.yaml,*.yml"},
	"css":    {FileGlob: "*.css"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// buildConvertFlagSet creates a FlagSet with all convert command flags.
func buildConvertFlagSet() *flag.FlagSet {
	var keepWith int
	var minFill float64
	return newConvertFlagSet(&convertFlags{}, &keepWith, &minFill)
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Split markdown files into cards",
			Flags:       extractFlagsFromFlagSet(buildConvertFlagSet()),
			FilePattern: "*.md,*.markdown",
		},
		{Name: "doctor", Desc: "Check the browser and environment", Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "output JSON"}}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(getCommands())
	case ShellZsh:
		script = zshScript(getCommands())
	case ShellFish:
		script = fishScript(getCommands())
	case ShellPowerShell:
		script = powerShellScript(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func longFlags(c commandDef) []string {
	out := make([]string, 0, len(c.Flags))
	for _, f := range c.Flags {
		out = append(out, "--"+f.Long)
	}
	return out
}

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# bash completion for %s\n", progName)
	fmt.Fprintf(&b, "_%s_completions() {\n", progName)
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") $(compgen -f -X '!*.@(md|markdown)' -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("    return\n  fi\n\n")

	b.WriteString("  case \"$prev\" in\n")
	for _, f := range cmds[0].Flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "    %s) COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") ); return ;;\n", pattern, strings.Join(f.Values, " "))
		case flagDir:
			fmt.Fprintf(&b, "    %s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return ;;\n", pattern)
		case flagFile:
			fmt.Fprintf(&b, "    %s) COMPREPLY=( $(compgen -f -- \"$cur\") ); return ;;\n", pattern)
		}
	}
	b.WriteString("  esac\n\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && c.FilePattern == "" {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(longFlags(c), " "))
		if c.FilePattern != "" {
			b.WriteString("      else\n")
			b.WriteString("        COMPREPLY=( $(compgen -f -X '!*.@(md|markdown)' -- \"$cur\") $(compgen -d -- \"$cur\") )\n")
		}
		b.WriteString("      fi\n      ;;\n")
	}
	b.WriteString("    completion) COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"$cur\") ) ;;\n")
	b.WriteString("  esac\n}\n")
	fmt.Fprintf(&b, "complete -F _%s_completions %s\n", progName, progName)
	return b.String()
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#compdef %s\n\n", progName)
	fmt.Fprintf(&b, "_%s() {\n", progName)
	b.WriteString("  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    _files -g '*.(md|markdown)'\n")
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if c.FilePattern != "" {
			b.WriteString("        '*:input:_files -g \"*.(md|markdown)\"'\n")
		} else {
			b.WriteString("        \n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("    completion) _values 'shell' bash zsh fish powershell ;;\n")
	b.WriteString("  esac\n}\n\n")
	fmt.Fprintf(&b, "_%s \"$@\"\n", progName)
	return b.String()
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		return ":" + f.Long + ":_directories"
	case flagFile:
		return ":" + f.Long + ":_files"
	default:
		return ":" + f.Long + ":"
	}
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	names := strings.Join(commandNames(cmds), " ")
	fmt.Fprintf(&b, "# fish completion for %s\n", progName)
	fmt.Fprintf(&b, "function __fish_%s_needs_command\n", progName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\nend\n\n")
	fmt.Fprintf(&b, "function __fish_%s_using_command\n", progName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\nend\n\n")
	fmt.Fprintf(&b, "complete -c %s -f\n", progName)
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_needs_command' -a %s -d '%s'\n", progName, progName, c.Name, fishEscape(c.Desc))
	}
	fmt.Fprintf(&b, "complete -c %s -n 'not __fish_seen_subcommand_from %s' -F -a '(__fish_complete_suffix .md)'\n", progName, names)
	for _, c := range cmds {
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_using_command %s' -l %s", progName, progName, c.Name, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case flagFile:
				b.WriteString(" -r -F")
			default:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscape(f.Desc))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_using_command %s' -F -a '(__fish_complete_suffix .md)'\n", progName, progName, c.Name)
		}
	}
	fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_using_command completion' -a 'bash zsh fish powershell'\n", progName, progName)
	return b.String()
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func powerShellScript(cmds []commandDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {\n", progName)
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $candidates = @()\n")
	b.WriteString("    if ($words.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {\n")
	fmt.Fprintf(&b, "        $candidates = @(%s)\n", psList(commandNames(cmds)))
	b.WriteString("    } else {\n")
	b.WriteString("        switch ($words[1]) {\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "            '%s' { $candidates = @(%s) }\n", c.Name, psList(longFlags(c)))
	}
	b.WriteString("            'completion' { $candidates = @('bash', 'zsh', 'fish', 'powershell') }\n")
	b.WriteString("        }\n    }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n}\n")
	return b.String()
}

func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2cards completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(md2cards completion bash)\"            # ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(md2cards completion zsh)\"             # ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        md2cards completion fish > ~/.config/fish/completions/md2cards.fish")
	fmt.Fprintln(w, "  PowerShell:  md2cards completion powershell | Out-String | Invoke-Expression")
}
