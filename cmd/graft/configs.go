package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/store"
)

type MainConfig struct {
	StoreDir string `cli:"name=store desc='payload store directory (default ~/.graft)'"`
	Mem      bool   `cli:"name=mem desc='keep the payload in memory only'"`
	Color    bool   `cli:"name=color desc='force colored output'"`

	Main *cli.Command
}

func (cfg *MainConfig) openStore() (store.Store, error) {
	if cfg.Mem {
		return store.NewMemory(), nil
	}
	dir := cfg.StoreDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("no home directory, pass -store: %w", err)
		}
		dir = filepath.Join(home, ".graft")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return store.OpenBadger(store.DefaultConfig(dir))
}

func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func getDocFile(cc *cli.Context, path string) (*ir.Node, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	doc, err := ir.Load(r)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return doc, nil
}

type CopyConfig struct {
	*MainConfig
	Selection string `cli:"name=s aliases=sel desc='index path of the subtree to copy'"`

	Copy *cli.Command
}

type PasteConfig struct {
	*MainConfig
	Selection string `cli:"name=s aliases=sel desc='index path of the subtree to paste into'"`
	Filter    string `cli:"name=filter desc='candidate filter expression'"`
	Dry       bool   `cli:"name=dry desc='emit a merge patch instead of writing'"`
	Verbose   bool   `cli:"name=v desc='show content diffs per transferred pair'"`
	Out       string `cli:"name=o desc='output file for the pasted document (default in-place)'"`

	Paste *cli.Command
}

type ClearConfig struct {
	*MainConfig

	Clear *cli.Command
}

type IndexConfig struct {
	*MainConfig
	Selection string `cli:"name=s aliases=sel desc='index path of the subtree to index'"`

	Index *cli.Command
}

type MatchCmdConfig struct {
	*MainConfig
	Filter  string `cli:"name=filter desc='candidate filter expression'"`
	Verbose bool   `cli:"name=v desc='show content diffs per pair'"`

	Match *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Out string `cli:"name=o desc='output file for the patched document (default in-place)'"`

	Patch *cli.Command
}

type ServeConfig struct {
	*MainConfig
	Addr  string `cli:"name=addr desc='tcp listen address'"`
	Stdio bool   `cli:"name=stdio desc='serve a single connection on stdin/stdout'"`

	Serve *cli.Command
}
