package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/subcommands"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

func importCmd() *group {
	return &group{
		name:     "import",
		synopsis: "import transactions from files",
		commands: []subcommands.Command{&importCSVCmd{}},
	}
}

type importCSVCmd struct {
	confirm bool
	charset string
}

func (*importCSVCmd) Name() string     { return "csv" }
func (*importCSVCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCSVCmd) Usage() string {
	return `csv [-confirm] [-charset <charset>] FILE

  Uploads FILE and previews the rows the server could read. The file has the
  columns date, amount, type and category, and optionally description.
  With -confirm, the valid rows are recorded as transactions.

  The file is sent as UTF-8. With -charset auto (the default), a file that is
  not valid UTF-8 is read as windows-1252, the usual encoding of bank exports.
`
}
func (c *importCSVCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.confirm, "confirm", false, "Record the valid rows after the preview.")
	f.StringVar(&c.charset, "charset", "auto", "Encoding of FILE: auto, utf-8, windows-1252, windows-1251, iso-8859-1 or iso-8859-15.")
}

// charsets are the encodings a CSV file can be read from.
var charsets = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// toUTF8 decodes data from charset.
func toUTF8(data []byte, charset string) ([]byte, error) {
	switch charset = strings.ToLower(charset); charset {
	case "utf-8", "utf8":
		return data, nil
	case "auto", "":
		if utf8.Valid(data) {
			return data, nil
		}
		charset = "windows-1252"
	}
	enc, ok := charsets[charset]
	if !ok {
		return nil, usagef("unknown charset %q", charset)
	}
	return enc.NewDecoder().Bytes(data)
}

func (c *importCSVCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return failure(usagef("want a single CSV file"))
	}
	name := f.Arg(0)
	return run(ctx, func(ctx context.Context, a *app) error {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		if data, err = toUTF8(data, c.charset); err != nil {
			return err
		}

		preview, err := a.client.UploadCSV(ctx, filepath.Base(name), bytes.NewReader(data))
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).ImportPreview(preview))
		if !c.confirm || len(preview.Rows) == 0 {
			return nil
		}

		result, err := a.client.ConfirmImport(ctx, preview.Rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Imported %d transactions.\n", result.Created)
		for _, msg := range result.Errors {
			fmt.Fprintf(stderr, "Warning: %s\n", msg)
		}
		return nil
	})
}
