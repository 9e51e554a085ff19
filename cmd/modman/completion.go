package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

func handleCompletion(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("completion", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: modman completion [bash|zsh|fish]")
	}
	switch sh := fs.Arg(0); sh {
	case "bash":
		fmt.Fprint(out, bashCompletion)
	case "zsh":
		fmt.Fprint(out, zshCompletion)
	case "fish":
		fmt.Fprint(out, fishCompletion)
	default:
		return fmt.Errorf("unknown shell: %s", sh)
	}
	return nil
}

const bashCompletion = `# bash completion for modman
_modman_completions()
{
    local cur prev words cword
    _init_completion || return
    local cmds="tui config version help completion"
    if [[ ${cword} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${cmds}" -- "$cur") )
        return
    fi
    case ${words[1]} in
        tui)
            COMPREPLY=( $(compgen -W "--config --demo --url --log-level --json" -- "$cur") ) ;;
        config)
            COMPREPLY=( $(compgen -W "validate print --config --log-level --json" -- "$cur") ) ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "$cur") ) ;;
        *) ;;
    esac
}
complete -F _modman_completions modman
`

const zshCompletion = `#compdef modman
# zsh completion for modman (basic)
_modman() {
  local -a cmds
  cmds=(tui config version help completion)
  if (( CURRENT == 2 )); then
    _describe 'command' cmds
    return
  fi
  case $words[2] in
    tui)
      _arguments '*:options:(--config --demo --url --log-level --json)'
      ;;
    config)
      _arguments '*:options:(validate print --config --log-level --json)'
      ;;
    completion)
      _arguments '*:options:(bash zsh fish)'
      ;;
  esac
}
compdef _modman modman
`

const fishCompletion = `# fish completion for modman
complete -c modman -f -n "__fish_use_subcommand" -a "tui" -d "open the mod manager"
complete -c modman -f -n "__fish_use_subcommand" -a "config" -d "config ops"
complete -c modman -f -n "__fish_use_subcommand" -a "version" -d "print version"
complete -c modman -f -n "__fish_use_subcommand" -a "completion" -d "shell completions"
complete -c modman -n "__fish_seen_subcommand_from config" -a "validate print"
complete -c modman -n "__fish_seen_subcommand_from tui" -l demo -d "Use the in-memory backend"
complete -c modman -n "__fish_seen_subcommand_from tui" -l url -d "Backend websocket URL"

# Common flags
for cmd in tui config
  complete -c modman -n "__fish_seen_subcommand_from $cmd" -l config -d "Path to config"
  complete -c modman -n "__fish_seen_subcommand_from $cmd" -l log-level -d "Log level"
  complete -c modman -n "__fish_seen_subcommand_from $cmd" -l json -d "JSON logs"
end
`
