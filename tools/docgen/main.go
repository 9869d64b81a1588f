// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// docgen reads docs/commands/<cmd>.md and writes
//   - docs/man/share/man1/whctl-<cmd>.1 rendered with md2man
//   - docs/tldr/whctl-<cmd>.md built from the summary and the Examples block

const binary = "whctl"

func main() {
	var (
		repoRoot      string
		onlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root")
	flag.BoolVar(&onlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	n, err := generate(repoRoot, onlyIfChanged)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("generated docs for %d commands\n", n)
}

// generate renders every command page under root and returns how many it
// processed.
func generate(root string, onlyIfChanged bool) (int, error) {
	commandsDir := filepath.Join(root, "docs", "commands")
	manDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrDir := filepath.Join(root, "docs", "tldr")

	for _, d := range []string{manDir, tldrDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	entries, err := os.ReadDir(commandsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", commandsDir, err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		cmd := strings.TrimSuffix(e.Name(), ".md")

		raw, err := os.ReadFile(filepath.Join(commandsDir, e.Name()))
		if err != nil {
			return n, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}

		manPath := filepath.Join(manDir, fmt.Sprintf("%s-%s.1", binary, cmd))
		if err := writeFileIfChanged(manPath, md2man.Render(raw), onlyIfChanged); err != nil {
			return n, fmt.Errorf("failed to write man page for %s: %w", cmd, err)
		}

		tldrPath := filepath.Join(tldrDir, fmt.Sprintf("%s-%s.md", binary, cmd))
		if err := writeFileIfChanged(tldrPath, []byte(parsePage(string(raw)).tldr(cmd)), onlyIfChanged); err != nil {
			return n, fmt.Errorf("failed to write tldr page for %s: %w", cmd, err)
		}
		n++
	}

	if n == 0 {
		return 0, fmt.Errorf("no command markdown found under %s", commandsDir)
	}
	return n, nil
}

func writeFileIfChanged(path string, content []byte, onlyIfChanged bool) error {
	if onlyIfChanged {
		old, err := os.ReadFile(path)
		switch {
		case err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)):
			return nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}

// page is what the tldr output needs from a command markdown file.
type page struct {
	title    string
	summary  string
	examples []example
}

type example struct {
	desc string
	cmd  string
}

var (
	h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	h2Re = regexp.MustCompile(`(?m)^##\s+(.+)$`)
)

// parsePage pulls the H1 title, the first paragraph of the "Summary" section
// and the commands of the first fenced block under "Examples".
func parsePage(md string) page {
	var p page
	if m := h1Re.FindStringSubmatch(md); m != nil {
		p.title = strings.TrimSpace(m[1])
	}

	if body, ok := section(md, "summary"); ok {
		var para []string
		for _, ln := range strings.Split(body, "\n") {
			ln = strings.TrimSpace(ln)
			if ln == "" {
				if len(para) > 0 {
					break
				}
				continue
			}
			para = append(para, ln)
		}
		p.summary = strings.Join(para, " ")
	}

	if body, ok := section(md, "examples"); ok {
		p.examples = parseExamples(body)
	}
	return p
}

// section returns the text between the H2 named name (case-insensitive) and
// the next H2.
func section(md, name string) (string, bool) {
	locs := h2Re.FindAllStringSubmatchIndex(md, -1)
	for i, loc := range locs {
		if !strings.EqualFold(strings.TrimSpace(md[loc[2]:loc[3]]), name) {
			continue
		}
		end := len(md)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		return md[loc[1]:end], true
	}
	return "", false
}

// parseExamples reads "# description" / command pairs from the first fenced
// code block of body.
func parseExamples(body string) []example {
	const fence = "```"
	start := strings.Index(body, fence)
	if start < 0 {
		return nil
	}
	rest := body[start+len(fence):]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return nil
	}

	var (
		exs  []example
		desc string
	)
	for _, ln := range strings.Split(rest[:end], "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(ln, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{desc: desc, cmd: strings.Join(strings.Fields(ln), " ")})
			desc = ""
		}
	}
	return exs
}

func (p page) tldr(cmd string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s-%s\n\n", binary, cmd)

	switch {
	case p.summary != "":
		fmt.Fprintf(&b, "> %s\n", p.summary)
	case p.title != "":
		fmt.Fprintf(&b, "> %s\n", p.title)
	default:
		fmt.Fprintf(&b, "> %s %s\n", binary, cmd)
	}
	b.WriteString("> More information: https://github.com/staranto/whctlgo.\n\n")

	exs := p.examples
	if len(exs) == 0 {
		exs = []example{{desc: "Show help for the command", cmd: binary + " " + cmd + " --help"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s:\n\n`%s`\n", ex.desc, ex.cmd)
	}
	return b.String()
}
