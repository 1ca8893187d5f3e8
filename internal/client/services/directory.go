package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/dirkeeper/internal/client/client"
	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
	"github.com/dmitrijs2005/dirkeeper/internal/client/view"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
)

// Messages stored when a call fails without a server message.
const (
	DefaultFetchMessage  = "Failed to fetch users"
	DefaultCreateMessage = "Failed to create user"
	DefaultUpdateMessage = "Failed to update user"
	DefaultDeleteMessage = "Failed to delete user"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("directory service closed")

// DirectoryService drives the directory state machine.
//
// Calls may overlap. Fetches are numbered as they are issued and a fetch
// outcome is applied only if no later fetch has been issued since. After
// Close, outcomes of calls still in flight are dropped.
type DirectoryService struct {
	client client.Client
	log    logging.Logger

	mu        sync.Mutex
	state     store.DirectoryState
	fetchSeq  uint64
	closed    bool
	listeners listeners[store.DirectoryState]
}

func NewDirectoryService(c client.Client, log logging.Logger) *DirectoryService {
	return &DirectoryService{
		client: c,
		log:    log.With("module", "directory"),
		state:  store.InitialDirectory(),
	}
}

func (d *DirectoryService) State() store.DirectoryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Visible is the filtered entry list for the current search text.
func (d *DirectoryService) Visible() []models.Entry {
	s := d.State()
	return view.VisibleEntries(s.Entries, s.SearchText)
}

// Subscribe registers fn to receive every new state.
func (d *DirectoryService) Subscribe(fn func(store.DirectoryState)) (unsubscribe func()) {
	return d.listeners.add(fn)
}

// Fetch loads one server page, replacing the held entries.
func (d *DirectoryService) Fetch(ctx context.Context, page int) error {
	page = max(page, 1)
	seq, ok := d.start(store.OpFetch)
	if !ok {
		return ErrClosed
	}

	p, err := d.client.ListEntries(ctx, page)
	if err != nil {
		d.fail(ctx, store.OpFetch, seq, err, DefaultFetchMessage)
		return err
	}

	d.log.Debug(ctx, "fetched entries", "page", p.Page, "count", len(p.Entries), "seq", seq)
	d.dispatch(store.FetchSucceeded{Seq: seq, Page: *p})
	return nil
}

// Create submits draft and appends the entry built from it and the id the
// server assigned.
func (d *DirectoryService) Create(ctx context.Context, draft models.Draft) (models.Entry, error) {
	if _, ok := d.start(store.OpCreate); !ok {
		return models.Entry{}, ErrClosed
	}

	id, err := d.client.CreateEntry(ctx, draft)
	if err != nil {
		d.fail(ctx, store.OpCreate, 0, err, DefaultCreateMessage)
		return models.Entry{}, err
	}

	e := models.SynthesizeEntry(id, draft)
	d.log.Info(ctx, "entry created", "id", id)
	d.dispatch(store.EntryCreated{Entry: e})
	return e, nil
}

// Update submits draft for id and replaces the held entry with that id,
// if any.
func (d *DirectoryService) Update(ctx context.Context, id int, draft models.Draft) (models.Entry, error) {
	if _, ok := d.start(store.OpUpdate); !ok {
		return models.Entry{}, ErrClosed
	}

	if err := d.client.UpdateEntry(ctx, id, draft); err != nil {
		d.fail(ctx, store.OpUpdate, 0, err, DefaultUpdateMessage)
		return models.Entry{}, err
	}

	e := models.SynthesizeEntry(id, draft)
	d.log.Info(ctx, "entry updated", "id", id)
	d.dispatch(store.EntryUpdated{Entry: e})
	return e, nil
}

func (d *DirectoryService) Delete(ctx context.Context, id int) error {
	if _, ok := d.start(store.OpDelete); !ok {
		return ErrClosed
	}

	if err := d.client.DeleteEntry(ctx, id); err != nil {
		d.fail(ctx, store.OpDelete, 0, err, DefaultDeleteMessage)
		return err
	}

	d.log.Info(ctx, "entry deleted", "id", id)
	d.dispatch(store.EntryDeleted{ID: id})
	return nil
}

func (d *DirectoryService) SetSearchText(text string) {
	d.dispatch(store.SearchTextSet{Text: text})
}

// SetDisplayMode also resets the search text and page.
func (d *DirectoryService) SetDisplayMode(m store.DisplayMode) {
	d.dispatch(store.DisplayModeSet{Mode: m})
}

func (d *DirectoryService) SetPage(n int) {
	d.dispatch(store.PageSet{Page: n})
}

func (d *DirectoryService) ClearError() {
	d.dispatch(store.DirectoryErrorCleared{})
}

// Close detaches the service: later outcomes and events are ignored.
func (d *DirectoryService) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// start dispatches OpStarted for op and returns the sequence number
// assigned to a fetch.
func (d *DirectoryService) start(op store.Op) (uint64, bool) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, false
	}
	var seq uint64
	if op == store.OpFetch {
		d.fetchSeq++
		seq = d.fetchSeq
	}
	d.state = store.ReduceDirectory(d.state, store.OpStarted{Op: op, Seq: seq})
	snapshot := d.state
	d.mu.Unlock()

	d.listeners.notify(snapshot)
	return seq, true
}

func (d *DirectoryService) fail(ctx context.Context, op store.Op, seq uint64, err error, fallback string) {
	d.log.Warn(ctx, "directory call failed", "op", op.String(), "error", err)
	d.dispatch(store.OpFailed{Op: op, Seq: seq, Message: client.MessageOr(err, fallback)})
}

func (d *DirectoryService) dispatch(ev store.DirectoryEvent) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	prev := d.state
	d.state = store.ReduceDirectory(d.state, ev)
	snapshot := d.state
	d.mu.Unlock()

	if stale, ok := ev.(store.FetchSucceeded); ok && prev.IsStale(stale.Seq) {
		d.log.Debug(context.Background(), "discarded stale fetch", "seq", stale.Seq, "latest", prev.FetchSeq)
		return
	}
	d.listeners.notify(snapshot)
}
