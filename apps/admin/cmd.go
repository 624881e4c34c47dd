package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/pacclub/pacsite/core/content"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *content.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  list -kind KIND                 - list records of the given kind")
	fmt.Println("  upload -kind KIND -manifest F   - upload a record described by manifest F")
	fmt.Println("  delete -kind KIND -number N     - delete record N of the given kind")
	fmt.Println()
	fmt.Println("Kinds:", content.Kinds())
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listKind := listCmd.String("kind", "", "The record kind to list.")

	uploadCmd := flag.NewFlagSet("upload", flag.ExitOnError)
	uploadKind := uploadCmd.String("kind", "", "The record kind to upload.")
	uploadManifestPath := uploadCmd.String("manifest", "", "Path to a JSON manifest describing the record. Image paths are resolved relative to it.")

	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	deleteKind := deleteCmd.String("kind", "", "The record kind to delete from.")
	deleteNumber := deleteCmd.String("number", "", "The record number to delete.")

	switch args[1] {
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *listKind == "" {
			listCmd.Usage()
			return errHelp
		}
		return cli.list(*listKind)
	case "upload":
		if err := uploadCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *uploadKind == "" || *uploadManifestPath == "" {
			uploadCmd.Usage()
			return errHelp
		}
		if err := cli.login(); err != nil {
			return err
		}
		return cli.upload(*uploadKind, *uploadManifestPath)
	case "delete":
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteKind == "" || *deleteNumber == "" {
			deleteCmd.Usage()
			return errHelp
		}
		if err := cli.login(); err != nil {
			return err
		}
		return cli.delete(*deleteKind, *deleteNumber)
	default:
		cli.printUsage()
		return errHelp
	}
}

// login prompts for the shared admin password and verifies it against the
// backend before any mutating command runs.
func (cli *commandLine) login() error {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return errHelp
	}
	return cli.svc.Login(context.Background(), string(pwd))
}

func (cli *commandLine) list(kindStr string) error {
	kind, err := content.KindFromString(kindStr)
	if err != nil {
		return err
	}
	recs, err := cli.svc.List(context.Background(), kind, content.ListOptions{})
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Printf("#%s\t%s\t%s\n", rec.Number, rec.Date, rec.Title)
	}
	fmt.Printf("%d record(s)\n", len(recs))
	return nil
}

func (cli *commandLine) delete(kindStr, number string) error {
	kind, err := content.KindFromString(kindStr)
	if err != nil {
		return err
	}
	if err := cli.svc.Delete(context.Background(), kind, number); err != nil {
		return err
	}
	logger.Printf("deleted %s #%s", kind, number)
	return nil
}
