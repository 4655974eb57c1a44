package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-md2cards"
	"github.com/alnah/go-md2cards/internal/flow"
	"github.com/alnah/go-md2cards/internal/measure"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// sampleWidth is the line width the font check measures at.
const sampleWidth = 300

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

type doctorResult struct {
	Status   string       `json:"status"`
	Chrome   chromeInfo   `json:"chrome"`
	Fonts    fontInfo     `json:"fonts"`
	Presets  []presetInfo `json:"presets"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type fontInfo struct {
	Loaded     bool `json:"loaded"`
	SampleLine int  `json:"sample_line_px,omitempty"`
}

// presetInfo is the geometry a preset lays cards out at.
type presetInfo struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"` // card
	Budget    int    `json:"budget"` // content box
	TextWidth int    `json:"text_width"`
	KeepWith  int    `json:"keep_with"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd checks what card rendering depends on. It exits with
// ExitGeneral only on errors; warnings leave md2cards usable.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()
	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	for _, check := range []func(*doctorResult){
		checkChrome,
		checkFonts,
		checkPresets,
		checkEnvironment,
		checkSystem,
	} {
		check(result)
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}
	return result
}

// checkChrome looks for the browser PNG cards are screenshot in. HTML cards
// need no browser, so a missing one is a warning.
func checkChrome(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			result.warn("Chrome/Chromium not found: PNG output unavailable. Install Chrome, set ROD_BROWSER_BIN, or use --format html")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		result.fail("Chrome not found at %s", path)
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = path
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from rod or ROD_BROWSER_BIN
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkFonts measures one line of body text with the embedded fonts.
func checkFonts(result *doctorResult) {
	oracle, err := measure.NewFontOracle(measure.DefaultTypography)
	if err != nil {
		result.fail("Font oracle unavailable: %v", err)
		return
	}
	h, err := oracle.Measure(measure.Request{
		Kind:    flow.KindParagraph,
		Content: flow.Content{Text: "md2cards"},
	}, sampleWidth)
	if err != nil {
		result.fail("Font measurement failed: %v", err)
		return
	}
	result.Fonts.Loaded = true
	result.Fonts.SampleLine = h
}

func checkPresets(result *doctorResult) {
	for _, p := range []md2cards.Preset{md2cards.PresetSmall, md2cards.PresetMedium, md2cards.PresetLarge} {
		size := p.PageSize()
		if err := size.Validate(); err != nil {
			result.fail("Preset %s: %v", p, err)
			continue
		}
		result.Presets = append(result.Presets, presetInfo{
			Name:      p.String(),
			Width:     size.Width,
			Height:    size.CardHeight(),
			Budget:    size.Height,
			TextWidth: size.ContentWidth(),
			KeepWith:  p.KeepWith(),
		})
	}
}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer reports whether md2cards runs in a container and names the
// signal that said so.
func isContainer() (bool, string) {
	if os.Getenv("MD2CARDS_CONTAINER") == "1" {
		return true, "MD2CARDS_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem writes a probe file to the temp directory, where card
// documents are staged for the browser.
func checkSystem(result *doctorResult) {
	dir := os.TempDir()
	probe := filepath.Join(dir, "md2cards-doctor-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		result.fail("Temp directory not writable: %s", dir)
		return
	}
	_ = os.Remove(probe)
	result.System.TempWritable = true
}

// reportLine is one "[LEVEL] text" line of the human report.
type reportLine struct {
	level string
	text  string
}

func okLine(format string, args ...any) reportLine {
	return reportLine{"OK", fmt.Sprintf(format, args...)}
}

type reportSection struct {
	title string
	lines []reportLine
}

// sections lays the result out as titled groups of report lines.
func (r *doctorResult) sections() []reportSection {
	var chrome []reportLine
	if r.Chrome.Found {
		chrome = append(chrome, okLine("Found at %s", r.Chrome.Path))
		if r.Chrome.Version != "" {
			chrome = append(chrome, okLine("Version: %s", r.Chrome.Version))
		}
		if r.Chrome.Sandbox {
			chrome = append(chrome, okLine("Sandbox: enabled"))
		} else {
			chrome = append(chrome, okLine("Sandbox: disabled (ROD_NO_SANDBOX=1)"))
		}
	} else {
		chrome = append(chrome, reportLine{"WARN", "Not found (HTML output only)"})
	}

	fonts := []reportLine{{"ERROR", "Font oracle: unavailable (use --oracle heuristic)"}}
	if r.Fonts.Loaded {
		fonts = []reportLine{okLine("Font oracle: one body line is %dpx", r.Fonts.SampleLine)}
	}

	var presets []reportLine
	for _, p := range r.Presets {
		presets = append(presets, okLine("%-6s %dx%d, budget %dpx, text width %dpx, keep-with %dpx", p.Name, p.Width, p.Height, p.Budget, p.TextWidth, p.KeepWith))
	}

	env := []reportLine{okLine("Platform: %s/%s", r.Env.OS, r.Env.Arch)}
	if r.Env.Container {
		env = append(env, okLine("Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		env = append(env, okLine("CI: detected"))
	}

	system := []reportLine{{"ERROR", "Temp directory: not writable"}}
	if r.System.TempWritable {
		system = []reportLine{okLine("Temp directory: writable")}
	}

	out := []reportSection{
		{"Chrome/Chromium", chrome},
		{"Fonts", fonts},
		{"Presets", presets},
		{"Environment", env},
		{"System", system},
	}
	if len(r.Warnings) > 0 {
		var lines []reportLine
		for _, w := range r.Warnings {
			lines = append(lines, reportLine{"WARN", w})
		}
		out = append(out, reportSection{"Warnings:", lines})
	}
	if len(r.Errors) > 0 {
		var lines []reportLine
		for _, e := range r.Errors {
			lines = append(lines, reportLine{"ERROR", e})
		}
		out = append(out, reportSection{"Errors:", lines})
	}
	return out
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2cards doctor")
	fmt.Fprintln(w)

	for _, s := range r.sections() {
		fmt.Fprintln(w, s.title)
		for _, l := range s.lines {
			fmt.Fprintf(w, "  [%s] %s\n", l.level, l.text)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to make cards")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
