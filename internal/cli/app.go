package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/agent-bugs/internal/bugs"
	"github.com/calvinalkan/agent-bugs/internal/config"
	"github.com/calvinalkan/agent-bugs/internal/fs"
	"github.com/calvinalkan/agent-bugs/internal/vcs"
)

// gitEnvKeys are forwarded from the env map to git so tests (and callers
// with a synthetic environment) control which git config is read.
var gitEnvKeys = []string{
	"HOME", "XDG_CONFIG_HOME", "GIT_CONFIG_GLOBAL", "GIT_CONFIG_NOSYSTEM", "GIT_CEILING_DIRECTORIES",
}

// app is the state shared by the commands of one invocation (or one shell
// session).
type app struct {
	cfg  config.Config
	env  map[string]string
	user string
	git  *vcs.Git
	fs   fs.FS
	log  *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// store is the working-tree store, opened on first use and shared by
	// every command after that.
	store *bugs.Store
	// revDirs caches materialized revisions by full commit hash.
	revDirs map[string]string

	inShell bool
}

func newApp(ctx context.Context, flags globalFlags, env map[string]string, in io.Reader, out, errOut io.Writer) (*app, error) {
	workDir := flags.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot get working directory: %w", err)
		}

		workDir = wd
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	git := vcs.New(workDir)

	for _, k := range gitEnvKeys {
		if v, ok := env[k]; ok {
			git.Env = append(git.Env, k+"="+v)
		}
	}

	log := newLogger(errOut, env)

	root, err := git.Root(ctx)
	if err != nil {
		log.Debug("not in a git work tree, using working directory as root", "dir", workDir, "err", err)

		root = workDir
	}

	cfg, err := config.Load(config.LoadInput{
		Root:            root,
		ConfigPath:      flags.configPath,
		BugsDirOverride: flags.bugsDir,
		Env:             env,
	})
	if err != nil {
		return nil, err
	}

	user := cfg.User
	if user == "" {
		user = git.UserName(ctx)
	}

	log.Debug("config loaded", "root", cfg.Root, "bugs_dir", cfg.BugsDirAbs, "user", user)

	return &app{
		cfg:     cfg,
		env:     env,
		user:    user,
		git:     git,
		fs:      fs.NewReal(),
		log:     log,
		in:      in,
		out:     out,
		errOut:  errOut,
		revDirs: make(map[string]string),
	}, nil
}

func (a *app) storeOptions() []bugs.Option {
	return []bugs.Option{
		bugs.WithFS(a.fs),
		bugs.WithFastAdd(a.cfg.FastAdd),
		bugs.WithLogger(a.log),
	}
}

// openStore returns the working-tree store, or with a non-empty rev a
// read-only copy of the store as of that revision.
func (a *app) openStore(ctx context.Context, rev string) (*bugs.Store, error) {
	if rev != "" {
		dir, err := a.materialize(ctx, rev)
		if err != nil {
			return nil, err
		}

		return bugs.Open(dir, a.user, a.storeOptions()...)
	}

	if a.store == nil {
		s, err := bugs.Open(a.cfg.BugsDirAbs, a.user, a.storeOptions()...)
		if err != nil {
			return nil, err
		}

		a.store = s
	}

	return a.store, nil
}

// relBugsDir is the bugs directory relative to the repository root.
func (a *app) relBugsDir() (string, error) {
	rel, err := filepath.Rel(a.cfg.Root, a.cfg.BugsDirAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("bugs directory %s is outside the repository", a.cfg.BugsDirAbs)
	}

	return rel, nil
}

// materialize copies the bugs file as of rev into $TMPDIR/b-<commit> and
// returns the bugs directory inside it. Copies are reused across calls and
// runs since a commit never changes.
func (a *app) materialize(ctx context.Context, rev string) (string, error) {
	full, err := a.git.ResolveRev(ctx, rev)
	if err != nil {
		return "", err
	}

	if dir, ok := a.revDirs[full]; ok {
		return dir, nil
	}

	rel, err := a.relBugsDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(os.TempDir(), "b-"+full, rel)
	path := filepath.Join(dir, bugs.BugsFileName)

	exists, err := a.fs.Exists(path)
	if err != nil {
		return "", err
	}

	if !exists {
		data, err := a.git.Show(ctx, full, filepath.Join(rel, bugs.BugsFileName))
		if err != nil {
			return "", fmt.Errorf("failed to access %s at rev %s: %w", filepath.Join(rel, bugs.BugsFileName), rev, err)
		}

		err = a.fs.MkdirAll(dir, 0o755)
		if err != nil {
			return "", err
		}

		err = a.fs.WriteFileAtomic(path, data, 0o644)
		if err != nil {
			return "", err
		}

		a.log.Debug("materialized revision", "rev", rev, "commit", full, "dir", dir)
	}

	a.revDirs[full] = dir

	return dir, nil
}

// materializeDetails copies the details file of id as of rev next to the
// materialized bugs file. A bug without details at rev is not an error.
func (a *app) materializeDetails(ctx context.Context, rev string, s *bugs.Store, id string) error {
	path := s.DetailsPath(id)

	exists, err := a.fs.Exists(path)
	if err != nil || exists {
		return err
	}

	rel, err := a.relBugsDir()
	if err != nil {
		return err
	}

	data, err := a.git.Show(ctx, rev, filepath.Join(rel, bugs.DetailsDirName, filepath.Base(path)))
	if err != nil {
		if errors.Is(err, vcs.ErrNotAtRev) {
			return nil
		}

		return err
	}

	err = a.fs.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}

	return a.fs.WriteFileAtomic(path, data, 0o644)
}

// track stages the bugs directory in git after a command changed it.
func (a *app) track(ctx context.Context, o *IO) {
	err := a.git.Track(ctx, a.cfg.BugsDirAbs)
	if err != nil {
		o.Warn("could not add bugs directory to git", err.Error())
	}
}

// edit launches the editor on the details file of prefix.
func (a *app) edit(ctx context.Context, s *bugs.Store, prefix string) error {
	editor, err := resolveEditor(a.cfg, a.env)
	if err != nil {
		return err
	}

	return s.Edit(prefix, func(path string) error {
		return runEditor(ctx, editor, path, a.out, a.errOut)
	})
}
