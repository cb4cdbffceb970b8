package refiner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Default delays used by the Controller.
const (
	DefaultDisplayDelay   = 500 * time.Millisecond
	DefaultNoticeDuration = 3 * time.Second
)

// DocumentTitle is the title of exported HTML documents.
const DocumentTitle = "Project Roadmap"

// Controller coordinates user input, the refinement request, simulated
// progress and result rendering. All methods are safe for concurrent use.
type Controller struct {
	refiner   Refiner
	saver     Saver
	scheduler Scheduler
	simulator *Simulator
	render    func(markdown string) string
	document  func(title, fragment string) string
	examples  Examples
	now       func() time.Time
	onChange  func(View)

	displayDelay   time.Duration
	noticeDuration time.Duration

	mu       sync.Mutex
	seq      uint64
	view     View
	stored   string // raw markdown most recently rendered
	token    uint64 // identifies the latest generation request
	progress *Progress
	cancel   context.CancelFunc
	noticeID uint64
	notice   Handle
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithScheduler sets the scheduler used for progress ticks and delays.
func WithScheduler(s Scheduler) ControllerOption {
	return func(c *Controller) { c.scheduler = s }
}

// WithSimulator sets the progress simulator.
func WithSimulator(s *Simulator) ControllerOption {
	return func(c *Controller) { c.simulator = s }
}

// WithRenderer sets the markdown-to-HTML renderer.
func WithRenderer(fn func(markdown string) string) ControllerOption {
	return func(c *Controller) { c.render = fn }
}

// WithDocument sets the function wrapping rendered HTML into a full page
// for ExportHTML.
func WithDocument(fn func(title, fragment string) string) ControllerOption {
	return func(c *Controller) { c.document = fn }
}

// WithExamples sets the example catalog used by LoadExample.
func WithExamples(e Examples) ControllerOption {
	return func(c *Controller) { c.examples = e }
}

// WithClock sets the time source used for download filenames.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithDisplayDelay sets how long the completed progress bar stays visible
// before the result is shown.
func WithDisplayDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.displayDelay = d }
}

// WithNoticeDuration sets how long download notices stay visible.
func WithNoticeDuration(d time.Duration) ControllerOption {
	return func(c *Controller) { c.noticeDuration = d }
}

// WithObserver registers a callback receiving every new View. It is called
// without the controller lock held, possibly from scheduler goroutines, so
// snapshots may arrive out of order; use View.Seq to discard stale ones.
func WithObserver(fn func(View)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// NewController creates a Controller issuing requests through r and
// writing downloads through s.
func NewController(r Refiner, s Saver, opts ...ControllerOption) *Controller {
	c := &Controller{
		refiner:        r,
		saver:          s,
		scheduler:      TimeScheduler{},
		render:         func(md string) string { return md },
		document:       func(_, fragment string) string { return fragment },
		now:            time.Now,
		displayDelay:   DefaultDisplayDelay,
		noticeDuration: DefaultNoticeDuration,
	}
	for _, o := range opts {
		o(c)
	}
	if c.simulator == nil {
		c.simulator = NewSimulator(c.scheduler)
	}
	return c
}

// View returns the current view snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Examples returns the example catalog.
func (c *Controller) Examples() Examples { return c.examples }

// SetDescription mirrors the input field into the controller without
// notifying observers.
func (c *Controller) SetDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Description = text
}

// Generate submits description to the refinement service. It blocks until
// the response arrives; the transition to StateSuccess happens after the
// display delay, on the scheduler. The returned error has already been
// reflected in the view.
func (c *Controller) Generate(ctx context.Context, description string) error {
	c.mu.Lock()
	if c.view.State == StateSubmitting {
		c.mu.Unlock()
		return ErrInFlight
	}
	req := Request{ProjectDescription: description, Detailed: true}
	if err := req.Validate(); err != nil {
		c.view.Description = description
		c.view.State = StateError
		c.view.Progress = nil
		c.view.Result = nil
		c.view.HTML = ""
		c.view.Error = ErrorMessage(err)
		c.view.Notice = ""
		v := c.commit()
		c.mu.Unlock()
		c.notify(v)
		return err
	}

	c.token++
	token := c.token
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.stored = ""
	c.view.Description = description
	c.view.State = StateSubmitting
	c.view.Result = nil
	c.view.HTML = ""
	c.view.Error = ""
	c.view.Notice = ""
	start := ProgressStart
	c.view.Progress = &start
	c.progress = c.simulator.Start(func(s ProgressState) { c.advance(token, s) })
	v := c.commit()
	c.mu.Unlock()
	c.notify(v)

	klog.V(2).Infof("refiner: request %d submitted (%d bytes)", token, len(description))
	res, err := c.refiner.Refine(ctx, req)
	cancel()
	return c.finish(token, res, err)
}

// advance applies a simulated progress step if it belongs to the current
// request.
func (c *Controller) advance(token uint64, s ProgressState) {
	c.mu.Lock()
	if token != c.token || c.view.State != StateSubmitting {
		c.mu.Unlock()
		return
	}
	c.view.Progress = &s
	v := c.commit()
	c.mu.Unlock()
	c.notify(v)
}

func (c *Controller) finish(token uint64, res Result, err error) error {
	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		klog.V(2).Infof("refiner: discarding response for stale request %d", token)
		return err
	}
	p := c.progress
	c.progress = nil
	c.cancel = nil
	c.mu.Unlock()

	// Stop outside the lock: a tick holds the progress lock while waiting
	// for ours.
	p.Stop()

	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		return err
	}
	if err != nil {
		klog.Errorf("refiner: request %d failed: %v", token, err)
		c.view.State = StateError
		c.view.Progress = nil
		c.view.Error = ErrorMessage(err)
		v := c.commit()
		c.mu.Unlock()
		c.notify(v)
		return err
	}
	klog.V(2).Infof("refiner: request %d completed (%d bytes)", token, len(res.Roadmap))
	done := ProgressComplete
	c.view.Progress = &done
	v := c.commit()
	c.scheduler.After(c.displayDelay, func() { c.display(token, res) })
	c.mu.Unlock()
	c.notify(v)
	return nil
}

func (c *Controller) display(token uint64, res Result) {
	c.mu.Lock()
	if token != c.token || c.view.State != StateSubmitting {
		c.mu.Unlock()
		return
	}
	c.stored = res.Roadmap
	c.view.State = StateSuccess
	c.view.Progress = nil
	c.view.Result = &res
	c.view.HTML = c.render(c.stored)
	v := c.commit()
	c.mu.Unlock()
	c.notify(v)
}

// Cancel abandons the in-flight request, if any. Its response, when it
// arrives, is discarded.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.view.State != StateSubmitting {
		c.mu.Unlock()
		return
	}
	c.token++
	token := c.token
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	p := c.progress
	c.progress = nil
	c.view.State = StateIdle
	c.view.Progress = nil
	c.view.Notice = "Request cancelled"
	v := c.commit()
	c.mu.Unlock()
	p.Stop()
	klog.V(2).Infof("refiner: request %d cancelled", token-1)
	c.notify(v)
}

// LoadExample replaces the description with the named example and clears
// the result and error panels. It reports whether key was known.
func (c *Controller) LoadExample(key string) bool {
	ex, ok := c.examples.Lookup(key)
	if !ok {
		return false
	}
	c.mu.Lock()
	c.view.Description = ex.Text
	c.view.Result = nil
	c.view.HTML = ""
	c.view.Error = ""
	c.view.Notice = ""
	if c.view.State != StateSubmitting {
		c.view.State = StateIdle
	}
	v := c.commit()
	c.mu.Unlock()
	c.notify(v)
	return true
}

// Download saves the stored roadmap markdown verbatim and returns where it
// was written.
func (c *Controller) Download() (string, error) {
	return c.save(ExtText, func() []byte { return []byte(c.stored) })
}

// ExportHTML saves the rendered roadmap as a standalone HTML document.
func (c *Controller) ExportHTML() (string, error) {
	return c.save(ExtHTML, func() []byte {
		return []byte(c.document(DocumentTitle, c.render(c.stored)))
	})
}

// save must be called without the lock; content is invoked with it held.
func (c *Controller) save(ext string, content func() []byte) (string, error) {
	c.mu.Lock()
	if c.stored == "" {
		c.view.Error = MsgNoRoadmap
		c.view.Notice = ""
		v := c.commit()
		c.mu.Unlock()
		c.notify(v)
		return "", fmt.Errorf("download: %w", ErrNoRoadmap)
	}
	data := content()
	name := DownloadFilename(c.now(), ext)
	c.mu.Unlock()

	path, err := c.saver.Save(name, data)

	c.mu.Lock()
	if err != nil {
		klog.Errorf("refiner: save %s: %v", name, err)
		c.view.Error = fmt.Sprintf("Failed to save roadmap: %v", err)
		v := c.commit()
		c.mu.Unlock()
		c.notify(v)
		return "", fmt.Errorf("download: %w", err)
	}
	klog.V(2).Infof("refiner: saved %s", path)
	c.view.Error = ""
	c.view.Notice = "Roadmap saved to " + path
	c.noticeID++
	id := c.noticeID
	if c.notice != nil {
		c.notice.Stop()
	}
	c.notice = c.scheduler.After(c.noticeDuration, func() { c.dismissNotice(id) })
	v := c.commit()
	c.mu.Unlock()
	c.notify(v)
	return path, nil
}

func (c *Controller) dismissNotice(id uint64) {
	c.mu.Lock()
	if id != c.noticeID || c.view.Notice == "" {
		c.mu.Unlock()
		return
	}
	c.view.Notice = ""
	c.notice = nil
	v := c.commit()
	c.mu.Unlock()
	c.notify(v)
}

// StoredRoadmap returns the raw markdown that Download would write.
func (c *Controller) StoredRoadmap() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored
}

// commit stamps the view with a new sequence number. Caller holds c.mu.
func (c *Controller) commit() View {
	c.seq++
	c.view.Seq = c.seq
	return c.view
}

func (c *Controller) notify(v View) {
	if c.onChange != nil {
		c.onChange(v)
	}
}

// Forward returns a WithObserver callback that sends views to ch. When ch is
// full the oldest pending view is dropped; views are complete snapshots, so
// only the latest one matters.
func Forward(ch chan View) func(View) {
	return func(v View) {
		for {
			select {
			case ch <- v:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

// WaitDone reads views until one reaches StateSuccess or StateError. It is
// meant for non-interactive callers feeding it from WithObserver.
func WaitDone(ctx context.Context, views <-chan View) (View, error) {
	for {
		select {
		case v := <-views:
			if v.State == StateSuccess || v.State == StateError {
				return v, nil
			}
		case <-ctx.Done():
			return View{}, ctx.Err()
		}
	}
}
