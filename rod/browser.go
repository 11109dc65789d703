package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of pages a browser renders before it is
// replaced with a fresh process.
const DefaultRecycleAfter = 50

// browser owns a headless Chrome process and replaces it after a fixed
// number of rendered pages. Chrome's resident memory keeps growing across
// navigations, which matters for long digest batches.
type browser struct {
	mu           sync.Mutex
	current      *rod.Browser
	launcher     *launcher.Launcher
	rendered     int
	recycleAfter int
}

func newBrowser(recycleAfter int) (*browser, error) {
	b := &browser{recycleAfter: recycleAfter}
	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// acquire returns the browser to render the next page on, recycling first
// when the page budget is spent. It returns nil after shutdown.
func (b *browser) acquire() *rod.Browser {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil
	}
	if b.recycleAfter > 0 && b.rendered >= b.recycleAfter {
		b.recycle()
	}
	b.rendered++
	return b.current
}

func (b *browser) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	br := rod.New().ControlURL(u)
	if err := br.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.current = br
	b.launcher = l
	return nil
}

// recycle keeps the old process when a replacement cannot be started.
// Must be called with mu held.
func (b *browser) recycle() {
	prev, prevLauncher := b.current, b.launcher
	if err := b.launch(); err != nil {
		b.current, b.launcher = prev, prevLauncher
		return
	}
	_ = prev.Close()
	prevLauncher.Kill()
	b.rendered = 0
}

func (b *browser) shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.current != nil {
		err = b.current.Close()
		b.current = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}
