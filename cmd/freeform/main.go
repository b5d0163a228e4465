package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/freeform/internal/document"
	"github.com/dgallion1/freeform/internal/expr"
	"github.com/dgallion1/freeform/internal/memo"
	"github.com/dgallion1/freeform/internal/parser"
	"github.com/dgallion1/freeform/internal/signature"
)

const appName = "freeform"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "sign":
		os.Exit(cmdSign(os.Args[2:]))
	case "compare":
		os.Exit(cmdCompare(os.Args[2:]))
	case "classify":
		os.Exit(cmdClassify(os.Args[2:]))
	case "render":
		os.Exit(cmdRender(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Usage:
  %s sign [-memo path] <expr>...                      Print the signature of each expression.
  %s compare [-memo path] <reference> <answer>         Report whether two expressions are equivalent.
  %s classify <text>                                   Report whether text reads as an expression.
  %s render [-context c] [-instance id] <file>         Import a file and print its rendered questions.
  %s repl [-memo path]                                 Start the interactive signer.

`, appName, appName, appName, appName, appName)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// openSigner builds a signer over the memo at path. The returned closer
// releases the memo.
func openSigner(path string, log *slog.Logger) (*signature.Signer, io.Closer, error) {
	store, err := memo.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return signature.NewSigner(store, nil, log), store, nil
}

func cmdSign(args []string) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	memoPath := fs.String("memo", "", "SQLite memo file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s sign [-memo path] <expr>...\n", appName)
		return 2
	}

	log := newLogger()
	signer, closer, err := openSigner(*memoPath, log)
	if err != nil {
		log.Error("open memo", "error", err)
		return 1
	}
	defer closer.Close()

	ctx := context.Background()
	for _, e := range fs.Args() {
		res, err := signer.Signature(ctx, e)
		if err != nil {
			log.Error("sign", "input", e, "error", err)
			return 1
		}
		fmt.Printf("%s\t%s\n", res.Input, res.Signature)
	}
	return 0
}

func cmdCompare(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	memoPath := fs.String("memo", "", "SQLite memo file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s compare [-memo path] <reference> <answer>\n", appName)
		return 2
	}

	log := newLogger()
	signer, closer, err := openSigner(*memoPath, log)
	if err != nil {
		log.Error("open memo", "error", err)
		return 1
	}
	defer closer.Close()

	cmp, err := signer.Compare(context.Background(), fs.Arg(0), fs.Arg(1))
	if err != nil {
		log.Error("compare", "error", err)
		return 1
	}
	fmt.Printf("q\t%s\na\t%s\n", cmp.Question.Signature, cmp.Answer.Signature)
	if !cmp.Equivalent {
		fmt.Println("different")
		return 1
	}
	fmt.Println("equivalent")
	return 0
}

func cmdClassify(args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s classify <text>\n", appName)
		return 2
	}
	fmt.Println(classification(strings.Join(args, " ")))
	return 0
}

func classification(text string) string {
	if expr.LooksLikeExpression(text) {
		return "expression"
	}
	return "text"
}

func cmdRender(args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	ctxName := fs.String("context", "", "input name prefix")
	instance := fs.String("instance", "0", "question instance id")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s render [-context c] [-instance id] <file>\n", appName)
		return 2
	}

	log := newLogger()
	html, err := renderFile(fs.Arg(0), document.Options{Context: *ctxName, Instance: *instance})
	if err != nil {
		log.Error("render", "file", fs.Arg(0), "error", err)
		return 1
	}
	fmt.Println(html)
	return 0
}

func renderFile(path string, opts document.Options) (string, error) {
	p, err := parser.ForFile(path, parser.Options{PDFFallback: true})
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	tree, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return document.Render(tree.Markup(), opts).HTML, nil
}
