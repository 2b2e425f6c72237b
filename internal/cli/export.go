package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/agent-bugs/internal/bugs"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	errUnknownFormat    = errors.New("unknown format (want json or yaml)")
	errConflictingScope = errors.New("--resolved and --all cannot be used together")
)

// exportedBug is the stable, tool-facing shape of a bug.
type exportedBug struct {
	ID    string            `json:"id"              yaml:"id"`
	Title string            `json:"title"           yaml:"title"`
	Owner string            `json:"owner"           yaml:"owner"`
	Open  bool              `json:"open"            yaml:"open"`
	Filed string            `json:"filed"           yaml:"filed"`
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ExportCmd returns the export command.
func ExportCmd(a *app) *Command {
	fs := newFlags("export")
	addRevFlag(fs)
	fs.String("format", "json", "Output format: json|yaml")
	fs.BoolP("resolved", "r", false, "Export resolved bugs instead of open ones")
	fs.Bool("all", false, "Export open and resolved bugs")

	return &Command{
		Flags: fs,
		Usage: "export [flags]",
		Short: "Print bugs as JSON or YAML",
		Long: `Print open bugs (or resolved ones, or all) as a JSON array or YAML
sequence with the fields id, title, owner, open, filed (RFC 3339) and extra.
Bugs are ordered by id.`,
		ReadOnly: true,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			err := expectNoArgs(args)
			if err != nil {
				return err
			}

			return execExport(ctx, a, o, fs)
		},
	}
}

func execExport(ctx context.Context, a *app, o *IO, fs *flag.FlagSet) error {
	format, _ := fs.GetString("format")
	resolved, _ := fs.GetBool("resolved")
	all, _ := fs.GetBool("all")
	rev, _ := fs.GetString("rev")

	if resolved && all {
		return errConflictingScope
	}

	s, err := a.openStore(ctx, rev)
	if err != nil {
		return err
	}

	out := []exportedBug{}

	for _, b := range s.Bugs() {
		if !all && b.Open == resolved {
			continue
		}

		out = append(out, exportBug(b))
	}

	data, err := encodeExport(format, out)
	if err != nil {
		return err
	}

	o.Printf("%s", data)

	return nil
}

func exportBug(b *bugs.Bug) exportedBug {
	return exportedBug{
		ID:    b.ID,
		Title: b.Title,
		Owner: b.Owner,
		Open:  b.Open,
		Filed: b.Filed().UTC().Format(time.RFC3339),
		Extra: b.Extra,
	}
}

func encodeExport(format string, out []exportedBug) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}

		return append(data, '\n'), nil
	case "yaml", "yml":
		var buf strings.Builder

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		err := enc.Encode(out)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return []byte(buf.String()), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}
