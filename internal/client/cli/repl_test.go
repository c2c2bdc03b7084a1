package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	err      error

	LastSearch string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error    { return f.record("login") }
func (f *fakeExec) Logout(context.Context) error   { return f.record("logout") }
func (f *fakeExec) WhoAmI(context.Context) error   { return f.record("whoami") }
func (f *fakeExec) Posts(context.Context) error    { return f.record("posts") }
func (f *fakeExec) Latest(context.Context) error   { return f.record("latest") }
func (f *fakeExec) Mine(context.Context) error     { return f.record("mine") }
func (f *fakeExec) Create(context.Context) error   { return f.record("create") }
func (f *fakeExec) Refetch(context.Context) error  { return f.record("refetch") }

func (f *fakeExec) Search(_ context.Context, text string) error {
	f.LastSearch = text
	return f.record("search")
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	prev := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = prev })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "" }, readerFromLines(
		"register", "login", "", "posts", "latest", "mine", "search  red   sunset ",
		"create", "refetch", "whoami", "logout", "exit", "posts",
	))

	require.Equal(t, []string{
		"register", "login", "posts", "latest", "mine", "search",
		"create", "refetch", "whoami", "logout",
	}, f.calls)
	require.Equal(t, "red sunset", f.LastSearch)
	require.Contains(t, *out, "Bye!")
}

func TestRunREPL_SearchWithoutText(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "" }, readerFromLines("search"))

	require.Empty(t, f.calls)
	require.Contains(t, *out, "Usage: search <text>")
}

func TestRunREPL_UnknownAndErrors(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{err: errors.New("boom")}

	runREPL(context.Background(), f, func() string { return "" }, readerFromLines("dance", "posts"))

	require.Contains(t, *out, "Unknown command: dance")
	require.Contains(t, *out, "Error: boom")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)
	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, readerFromLines("help"))
	require.Contains(t, *out, "Available commands: register, login, exit")

	out = captureOutput(t)
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "(neo)" }, readerFromLines("help"))
	require.Contains(t, (*out)[0], "aora (neo)>")
	require.Contains(t, (*out)[1], "create")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	require.Empty(t, f.calls)
}
