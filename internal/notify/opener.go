package notify

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Opener hands a URI to something that can open it.
type Opener interface {
	Open(ctx context.Context, uri string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, uri string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, uri string) error {
	return f(ctx, uri)
}

// runFunc runs an external program to completion.
type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// BrowserOpener opens URIs with the desktop's default handler.
type BrowserOpener struct {
	GOOS string
	run  runFunc
}

// NewBrowserOpener returns a BrowserOpener for the running platform.
func NewBrowserOpener() *BrowserOpener {
	return &BrowserOpener{GOOS: runtime.GOOS, run: runCommand}
}

// Open implements Opener.
func (o *BrowserOpener) Open(ctx context.Context, uri string) error {
	run := o.run
	if run == nil {
		run = runCommand
	}
	switch o.GOOS {
	case "darwin":
		return run(ctx, "open", uri)
	case "linux", "freebsd", "openbsd", "netbsd":
		return run(ctx, "xdg-open", uri)
	case "windows":
		return run(ctx, "rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		return fmt.Errorf("no URI opener for %s", o.GOOS)
	}
}

// IntentOpener opens URIs through the Android activity manager with an
// ACTION_VIEW intent.
type IntentOpener struct {
	run runFunc
}

// NewIntentOpener returns an IntentOpener.
func NewIntentOpener() *IntentOpener {
	return &IntentOpener{run: runCommand}
}

// Open implements Opener.
func (o *IntentOpener) Open(ctx context.Context, uri string) error {
	run := o.run
	if run == nil {
		run = runCommand
	}
	return run(ctx, "am", "start", "-a", "android.intent.action.VIEW", "-d", uri)
}

// WriterOpener prints the URI instead of opening it.
type WriterOpener struct {
	W io.Writer
}

// Open implements Opener.
func (o WriterOpener) Open(_ context.Context, uri string) error {
	_, err := fmt.Fprintf(o.W, "Open to send: %s\n", uri)
	return err
}

// Opener modes accepted by OpenersFor.
const (
	OpenerAuto    = "auto"
	OpenerBrowser = "browser"
	OpenerIntent  = "intent"
	OpenerPrint   = "print"
)

// OpenersFor returns the native and fallback openers for mode on goos.
// In auto mode Android gets the intent opener with the browser as fallback;
// other platforms only have the browser opener. The print mode writes to w.
func OpenersFor(mode, goos string, w io.Writer) (native, fallback Opener, err error) {
	browser := &BrowserOpener{GOOS: goos, run: runCommand}

	switch mode {
	case "", OpenerAuto:
		if goos == "android" {
			return NewIntentOpener(), browser, nil
		}
		return nil, browser, nil
	case OpenerBrowser:
		return nil, browser, nil
	case OpenerIntent:
		return NewIntentOpener(), browser, nil
	case OpenerPrint:
		return nil, WriterOpener{W: w}, nil
	default:
		return nil, nil, fmt.Errorf("unknown opener %q (want auto, browser, intent or print)", mode)
	}
}
