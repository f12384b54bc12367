package tagver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/logutils"
	flags "github.com/jessevdk/go-flags"

	"github.com/linyows/tagver/semver"
)

const (
	// ExitOK for exit code
	ExitOK int = 0

	// ExitErr for exit code
	ExitErr int = 1
)

// CLI struct
type CLI struct {
	outStream, errStream io.Writer
	Command              string
	Args                 []string
	Registry             string `long:"registry" short:"r" arg:"url" description:"Registry URL holding alias/path/url rows (default: file under the user config dir)"`
	LogLevel             string `long:"log-level" short:"l" arg:"(debug|info|warn|error)" description:"Level displayed as log"`
	LogFormat            string `long:"log-format" arg:"(text|json)" description:"Structured log output format"`
	Notify               string `long:"notify" arg:"url" description:"Notifier URL, e.g. slack://channel or mail://host:587/to"`
	Major                bool   `long:"major" short:"M" description:"Bump the major version"`
	Minor                bool   `long:"minor" short:"m" description:"Bump the minor version"`
	Patch                bool   `long:"patch" short:"p" description:"Bump the patch version"`
	Build                bool   `long:"build" short:"b" description:"Track the build counter on the new tag"`
	Check                bool   `long:"check" description:"Validate only, never advance or publish"`
	DryRun               bool   `long:"dry-run" short:"d" description:"Print the publish command instead of executing it"`
	Interval             int    `long:"interval" short:"i" arg:"seconds" description:"The polling interval for watch (default: 60)"`
	Help                 bool   `long:"help" short:"h" description:"show this help message and exit"`
	Version              bool   `long:"version" short:"v" description:"prints the version number"`
}

// RunCLI runs as CLI
func RunCLI(o, e io.Writer, a []string) int {
	cli := &CLI{outStream: o, errStream: e, Interval: -1}
	return cli.run(a)
}

func (c *CLI) buildHelp(names []string) []string {
	var help []string
	t := reflect.TypeOf(CLI{})

	for _, name := range names {
		f, ok := t.FieldByName(name)
		if !ok {
			continue
		}

		tag := f.Tag
		if tag == "" {
			continue
		}

		var o, a string
		if a = tag.Get("arg"); a != "" {
			a = fmt.Sprintf("=%s", a)
		}
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s%s", tag.Get("short"), tag.Get("long"), a)
		} else {
			o = fmt.Sprintf("--%s%s", tag.Get("long"), a)
		}

		desc := tag.Get("description")
		if i := strings.Index(desc, "\n"); i >= 0 {
			var buf bytes.Buffer
			buf.WriteString(desc[:i+1])
			desc = desc[i+1:]
			const indent = "                        "
			for {
				if i = strings.Index(desc, "\n"); i >= 0 {
					buf.WriteString(indent)
					buf.WriteString(desc[:i+1])
					desc = desc[i+1:]
					continue
				}
				break
			}
			if len(desc) > 0 {
				buf.WriteString(indent)
				buf.WriteString(desc)
			}
			desc = buf.String()
		}
		help = append(help, fmt.Sprintf("  %-40s %s", o, desc))
	}

	return help
}

func (c *CLI) showHelp() {
	opts := strings.Join(c.buildHelp([]string{
		"Registry",
		"Major",
		"Minor",
		"Patch",
		"Build",
		"Check",
		"DryRun",
		"Notify",
		"Interval",
		"LogLevel",
		"LogFormat",
	}), "\n")

	help := `
Usage: tagver [--version] [--help] command <options>

Commands:
  add      Register a project: tagver add <alias> <path> <url>
  remove   Unregister a project: tagver remove <alias>
  list     Show registered projects
  sync     Reconcile local tags with the remote: tagver sync <alias>
  bump     Compute and publish the next version tag: tagver bump <alias>
  remote   List remote tags via the GitHub API: tagver remote <alias>
  watch    Keep tags in sync periodically: tagver watch <alias>

Options:
%s
`
	fmt.Fprintf(c.outStream, help, opts)
}

// field resolves the requested bump field, rejecting combined flags.
func (c *CLI) field() (semver.Field, error) {
	var (
		f semver.Field
		n int
	)
	if c.Major {
		f, n = semver.FieldMajor, n+1
	}
	if c.Minor {
		f, n = semver.FieldMinor, n+1
	}
	if c.Patch {
		f, n = semver.FieldPatch, n+1
	}
	if n > 1 {
		return semver.FieldNone, fmt.Errorf("only one of --major, --minor or --patch may be given")
	}
	return f, nil
}

func (c *CLI) run(a []string) int {
	p := flags.NewParser(c, flags.PrintErrors|flags.PassDoubleDash)
	args, err := p.ParseArgs(a)
	if err != nil || c.Help {
		c.showHelp()
		return ExitErr
	}

	if c.Version {
		fmt.Fprintf(c.errStream, "%s version %s [%v, %v]\n", name, version, commit, date)
		return ExitOK
	}

	if len(args) == 0 {
		Banner(c.outStream)
		c.showHelp()
		return ExitErr
	}

	c.Command = args[0]
	if len(args) > 1 {
		c.Args = args[1:]
	}

	if c.LogLevel != "" {
		c.LogLevel = strings.ToUpper(c.LogLevel)
	} else {
		c.LogLevel = "ERROR"
	}

	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: logutils.LogLevel(c.LogLevel),
		Writer:   c.errStream,
	}
	log.SetOutput(filter)

	conf := DefaultConfig()
	conf.LogLevel = c.LogLevel
	if c.LogFormat != "" {
		conf.LogFormat = c.LogFormat
	}
	if c.Registry != "" {
		conf.Registry = c.Registry
	}
	if c.Notify != "" {
		conf.Notify = c.Notify
	}
	conf.OverrideWithEnv()

	ctx := context.Background()

	t, err := New(ctx, conf, c.outStream, c.errStream)
	if err != nil {
		fmt.Fprintf(c.errStream, "Error: %s\n", err)
		return ExitErr
	}

	switch c.Command {
	case "add":
		if len(c.Args) != 3 {
			fmt.Fprintf(c.errStream, "Error: add needs <alias> <path> <url>\n")
			return ExitErr
		}
		if err := t.Add(ctx, c.Args[0], c.Args[1], c.Args[2]); err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		fmt.Fprintf(c.outStream, "Registered %s\n", c.Args[0])

	case "remove":
		if len(c.Args) != 1 {
			fmt.Fprintf(c.errStream, "Error: remove needs <alias>\n")
			return ExitErr
		}
		if err := t.Remove(ctx, c.Args[0]); err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		fmt.Fprintf(c.outStream, "Removed %s\n", c.Args[0])

	case "list":
		refs, err := t.List(ctx)
		if err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		bold := color.New(color.Bold)
		for _, r := range refs {
			bold.Fprintf(c.outStream, "%s", r.Alias)
			fmt.Fprintf(c.outStream, "\t%s\t%s\n", r.Path, r.URL)
		}

	case "sync":
		if len(c.Args) != 1 {
			fmt.Fprintf(c.errStream, "Error: sync needs <alias>\n")
			return ExitErr
		}
		res, err := t.Sync(ctx, c.Args[0])
		if err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		fmt.Fprintf(c.outStream, "Current version: %s\n", res.Current.String())

	case "bump":
		if len(c.Args) != 1 {
			fmt.Fprintf(c.errStream, "Error: bump needs <alias>\n")
			return ExitErr
		}
		field, err := c.field()
		if err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		req := semver.BumpRequest{Field: field, TrackBuild: c.Build, Increment: !c.Check}
		res, err := t.Bump(ctx, c.Args[0], req, c.DryRun)
		if err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		if res.NoOp {
			fmt.Fprintf(c.outStream, "Nothing to publish, current version is %s\n", res.Old.String())
			return ExitOK
		}
		fmt.Fprintf(c.outStream, "%s: %s -> %s\n", res.Project.Alias, res.Old.String(), res.New.String())

	case "remote":
		if len(c.Args) != 1 {
			fmt.Fprintf(c.errStream, "Error: remote needs <alias>\n")
			return ExitErr
		}
		remoteTags, err := t.RemoteTags(ctx, c.Args[0])
		if err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}
		for _, tag := range remoteTags {
			fmt.Fprintln(c.outStream, tag)
		}

	case "watch":
		if len(c.Args) != 1 {
			fmt.Fprintf(c.errStream, "Error: watch needs <alias>\n")
			return ExitErr
		}
		if c.Interval < 0 {
			c.Interval = 60
		}
		if err := t.Watch(ctx, c.Args[0], c.Interval); err != nil {
			fmt.Fprintf(c.errStream, "Error: %s\n", err)
			return ExitErr
		}

	default:
		fmt.Fprintf(c.errStream, "Error: command is not available\n")
		c.showHelp()
		return ExitErr
	}

	return ExitOK
}
