package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/dgallion1/freeform/internal/beautify"
	"github.com/dgallion1/freeform/internal/signature"
)

const (
	historyFile = ".freeform_history"
	prompt      = "ff> "
)

// session is the state carried between REPL lines.
type session struct {
	signer    *signature.Signer
	reference string
	hasRef    bool
}

var errQuit = errors.New("quit")

// eval runs one REPL line. Plain lines are signed and checked against the
// current reference; lines starting with ':' are commands.
func (s *session) eval(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, ":") {
		res, err := s.signer.Signature(ctx, line)
		if err != nil {
			return "", err
		}
		if !s.hasRef {
			return res.Signature, nil
		}
		cmp, err := s.signer.Compare(ctx, s.reference, line)
		if err != nil {
			return "", err
		}
		if cmp.Equivalent {
			return res.Signature + "  (matches reference)", nil
		}
		return res.Signature + "  (differs from reference)", nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return "", errQuit
	case ":ref":
		if arg == "" {
			s.reference, s.hasRef = "", false
			return "reference cleared", nil
		}
		res, err := s.signer.Signature(ctx, arg)
		if err != nil {
			return "", err
		}
		s.reference, s.hasRef = arg, true
		return "reference " + res.Signature, nil
	case ":classify":
		return classification(arg), nil
	case ":html":
		return beautify.Expression(arg, beautify.Options{}), nil
	case ":help":
		return ":ref <expr>  set the reference answer (no argument clears it)\n" +
			":classify <text>  expression or text\n" +
			":html <expr>  rendered markup\n" +
			":quit", nil
	}
	return fmt.Sprintf("unknown command %s. Type :help for commands.", cmd), nil
}

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	memoPath := fs.String("memo", "", "SQLite memo file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := newLogger()
	signer, closer, err := openSigner(*memoPath, log)
	if err != nil {
		log.Error("open memo", "error", err)
		return 1
	}
	defer closer.Close()

	s := &session{signer: signer}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runBasic(s, os.Stdin, os.Stdout)
	}
	return runLiner(s)
}

// runBasic handles piped input.
func runBasic(s *session, in io.Reader, out io.Writer) int {
	ctx := context.Background()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		res, err := s.eval(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runLiner(s *session) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("freeform signer. Type :help for commands.")
	ctx := context.Background()
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			// io.EOF or liner.ErrPromptAborted
			fmt.Println()
			return 0
		}
		res, err := s.eval(ctx, line)
		if errors.Is(err, errQuit) {
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if res != "" {
			fmt.Println(res)
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}
}
