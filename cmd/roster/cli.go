package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/web"
)

// cliState opens the session on first use so --help never touches storage.
type cliState struct {
	open    sessionOpener
	session *ops.Session
	release func()
}

func (st *cliState) get(c *cli.Context) (*ops.Session, error) {
	if st.session != nil {
		return st.session, nil
	}
	if st.open == nil {
		return nil, errors.NewInternal(fmt.Errorf("no storage configured"))
	}
	s, release, err := st.open(c.Context, c.Bool("ephemeral"))
	if err != nil {
		return nil, err
	}
	st.session, st.release = s, release
	return s, nil
}

func (st *cliState) close() {
	if st.release != nil {
		st.release()
	}
	st.session, st.release = nil, nil
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(open sessionOpener) *cli.App {
	st := &cliState{open: open}

	app := &cli.App{
		Name:    "roster",
		Usage:   "People records with duplicate detection",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ephemeral", Usage: "Keep data in memory only; nothing is saved"},
		},
		Commands: []*cli.Command{
			addCmd(st),
			importCmd(st),
			listCmd(st),
			dupesCmd(st),
			removeCmd(st),
			clearCmd(st),
			dedupeCmd(st),
			exportCmd(st),
			serveCmd(st),
		},
		After: func(_ *cli.Context) error {
			st.close()
			return nil
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add one person",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name"},
			&cli.StringFlag{Name: "birth-date", Aliases: []string{"b"}, Usage: "Birth date (e.g. 10/05/1985)"},
			&cli.StringFlag{Name: "document", Aliases: []string{"d"}, Usage: "Document number"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Add(c.Context, s, ops.AddInput{
				Name:           c.String("name"),
				BirthDate:      c.String("birth-date"),
				DocumentNumber: c.String("document"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import people from stdin or a file (one per line: name, birth date, document)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Read from this file instead of stdin"},
			&cli.BoolFlag{Name: "json", Usage: "Input is a JSON export (implied by a .json path)"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			path := c.String("path")
			asJSON := c.Bool("json") || strings.EqualFold(filepath.Ext(path), ".json")

			var output *ops.ImportOutput
			switch {
			case path != "" && asJSON:
				output, err = ops.ImportJSON(c.Context, s, ops.ImportJSONInput{Path: path})
			case path != "":
				text, readErr := readFile(path, ops.MaxImportFileBytes)
				if readErr != nil {
					return outputError(readErr)
				}
				output, err = ops.Import(c.Context, s, ops.ImportInput{Text: text})
			default:
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("pipe lines via stdin or pass --path"))
				}
				text, readErr := readStdin(ops.MaxImportFileBytes)
				if readErr != nil {
					return outputError(errors.NewInvalidRequest(readErr.Error()))
				}
				if asJSON {
					output, err = ops.ImportJSONBytes(c.Context, s, []byte(text))
				} else {
					output, err = ops.Import(c.Context, s, ops.ImportInput{Text: text})
				}
			}
			if err != nil {
				return outputError(err)
			}

			for _, d := range output.Diagnostics {
				fmt.Fprintf(os.Stderr, "skipped %s\n", d)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List people with duplicate marks",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max rows"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Rows to skip"},
			&cli.BoolFlag{Name: "duplicates", Usage: "Only rows with a duplicated field"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.List(c.Context, s, ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				DuplicatesOnly: c.Bool("duplicates"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dupesCmd creates the dupes command.
func dupesCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "dupes",
		Usage: "Show duplicate groups",
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Summary(c.Context, s)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove one person by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Remove(c.Context, s, ops.RemoveInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every person (requires --yes)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Clear(c.Context, s, ops.ClearInput{Confirm: c.Bool("yes")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// dedupeCmd creates the dedupe command.
func dedupeCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "dedupe",
		Usage: "Remove duplicates, keeping the newest record of each group (previews without --yes)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Dedupe(c.Context, s, ops.DedupeInput{Confirm: c.Bool("yes")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export people as csv, json or text",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "csv", Usage: "csv|json|text"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file (default: ~/.roster/exports/pessoas-<timestamp>.<ext>)"},
			&cli.BoolFlag{Name: "stdout", Usage: "Write the export to stdout instead of a file"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("stdout") {
				rendered, err := ops.Render(c.Context, s, ops.RenderInput{Format: c.String("format")})
				if err != nil {
					return outputError(err)
				}
				_, err = fmt.Fprintln(os.Stdout, string(rendered.Data))
				return err
			}

			output, err := ops.Export(c.Context, s, ops.ExportInput{
				Format: c.String("format"),
				Path:   c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(st *cliState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			s, err := st.get(c)
			if err != nil {
				return outputError(err)
			}

			srv, err := web.NewServer(s, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := errors.AsRoster(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all of stdin, failing when it exceeds limit bytes.
func readStdin(limit int64) (string, error) {
	return readLimited(os.Stdin, limit)
}

// readFile reads a pasted-lines file, failing when it exceeds limit bytes.
func readFile(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileNotFound(path)
		}
		return "", errors.NewInternal(err)
	}
	defer f.Close()

	text, err := readLimited(f, limit)
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	return text, nil
}

func readLimited(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return string(data), nil
}
