// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/meta"
)

const bashCompletionScript = `# bash completion for whctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_whctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    local roots="--data-root --source --failures"
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "ls get dump diff browse completion $roots --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --no-color --filter -f --output -o --sort -s --titles -t --no-titles --tldr"
    local versions="fpt ghec ghes latest free-pro-team@latest enterprise-cloud@latest enterprise-server@latest"

    case "$cmd" in
        ls|browse)
            local opts="$common"
            ;;
        get)
            local opts="$common"
            ;;
        dump)
            local opts="$common --stats"
            ;;
        diff)
            local opts="--color -c --no-color --delta --tldr"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --source)
            COMPREPLY=( $(compgen -W "file s3" -- "$cur") )
            return 0
            ;;
        --failures)
            COMPREPLY=( $(compgen -W "cache retry" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    if [[ ${COMP_CWORD} -eq 2 || ( "$cmd" == "diff" && ${COMP_CWORD} -eq 3 ) ]]; then
        COMPREPLY=( $(compgen -W "$versions" -- "$cur") )
        return 0
    fi
}

complete -F _whctl whctl
`

const zshCompletionScript = `#compdef whctl

_whctl() {
  local -a cmds
  cmds=(
    'ls:list webhook categories of a version'
    'get:show the action types of a webhook category'
    'dump:print the full webhook schema of a version'
    'diff:compare a webhook category between two versions'
    'browse:interactively browse the webhooks of a version'
    'completion:generate shell completion script'
  )

  local -a versions
  versions=(fpt ghec ghes latest free-pro-team@latest enterprise-cloud@latest enterprise-server@latest)

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[columns to output]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'whctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    ls|browse)
      _arguments -C $common "1::version:($versions)"
      ;;
    get)
      _arguments -C $common "1:version:($versions)" '2:category' '3::action'
      ;;
    dump)
      _arguments -C $common '--stats[per-category counts]' "1::version:($versions)"
      ;;
    diff)
      _arguments -C \
        '(-c --color)'{-c,--color}'[color the diff]' \
        '--delta[print the JSON delta]' \
        "1:version a:($versions)" "2:version b:($versions)" '3:category' '4::action'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _whctl whctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Writer(cmd)

	shell := cmd.Args().First()
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("%w: whctl completion [bash|zsh]", ErrUsage)
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "whctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
