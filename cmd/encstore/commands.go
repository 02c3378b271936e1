package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bitfsorg/encstore-go/vault"
)

// exitError carries a process exit code without an extra message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e *exitError) ExitCode() int { return e.code }

func newCmdFlags(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func putCmd(v *vault.Vault, args []string, stdout, stderr io.Writer) error {
	var name string
	fs := newCmdFlags("put", stderr)
	fs.StringVar(&name, "name", "", "store under this name instead of the file's base name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: encstore put FILE [--name NAME]")
	}

	res, err := v.PutFile(&vault.PutOpts{LocalFile: fs.Arg(0), Name: name})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "stored %s as %s (%d bytes)\n", res.OriginalFilename, res.StoredName, res.Size)
	return nil
}

func getCmd(v *vault.Vault, args []string, stdout, stderr io.Writer) error {
	var out string
	fs := newCmdFlags("get", stderr)
	fs.StringVarP(&out, "output", "o", "", "write plaintext here (default: original name in the current directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: encstore get STORED_NAME [-o OUT]")
	}

	res, path, err := v.GetFile(&vault.GetOpts{StoredName: fs.Arg(0), OutPath: out})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%d bytes)\n", path, len(res.Data))
	return nil
}

func listCmd(v *vault.Vault, args []string, stdout io.Writer) error {
	if len(args) != 0 {
		return errors.New("usage: encstore list")
	}
	entries, err := v.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STORED\tORIGINAL\tSIZE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", e.StoredName, e.OriginalFilename, e.Size)
	}
	return tw.Flush()
}

func checkCmd(v *vault.Vault, args []string, stdout io.Writer) error {
	if len(args) != 0 {
		return errors.New("usage: encstore check")
	}
	problems, err := v.Check()
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Fprintln(stdout, "ok")
		return nil
	}
	for _, p := range problems {
		kind := "malformed"
		if p.Missing() {
			kind = "missing"
		}
		fmt.Fprintf(stdout, "%s\t%s\t%v\n", kind, p.ID, p.Err)
	}
	return &exitError{code: 2}
}
