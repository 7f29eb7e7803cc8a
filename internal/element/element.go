// Package element runs the exec and count requests of one rendered element.
//
// Both requests are issued concurrently whenever the fetch key changes. The
// key is the data source name, the serialized query and the session refetch
// epoch. A result is committed only while its key is still current, so a
// response to a superseded query never reaches the visible state. The last
// settled data is kept as a cached snapshot and shown until a newer result
// arrives.
package element

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/soltixdb/reportkit/internal/cache"
	"github.com/soltixdb/reportkit/internal/filtertree"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/session"
	"github.com/soltixdb/reportkit/internal/utils"
)

var elementLog = logging.Global().With("component", "element")

// ErrClosed is returned by Wait after Close
var ErrClosed = errors.New("element is closed")

// Options configures an Element
type Options struct {
	UseCount            bool
	RemoveFilterOnEmpty bool
	Timeout             time.Duration
}

// DefaultOptions counts rows and keeps empty filters
func DefaultOptions() Options {
	return Options{UseCount: true, Timeout: utils.DefaultFetchTimeout}
}

// Snapshot is the data shown by an element
type Snapshot struct {
	Cols  []models.DsColumn `json:"cols"`
	Rows  [][]interface{}   `json:"rows"`
	Count int64             `json:"count"`
}

func emptySnapshot() Snapshot {
	return Snapshot{Cols: []models.DsColumn{}, Rows: [][]interface{}{}}
}

// State is the visible state of an element
type State struct {
	Data         Snapshot
	Loading      bool
	ExecLoading  bool
	CountLoading bool
	ExecErr      error
	CountErr     error
	Key          string
}

// Err returns the exec error, or the count error when counting is enabled
func (s State) Err() error {
	return errors.Join(s.ExecErr, s.CountErr)
}

type fetchKey struct {
	dataSource string
	query      string
	epoch      int64
}

func (k fetchKey) cacheKey(kind cache.Kind) string {
	return cache.Key{DataSource: k.dataSource, Kind: kind, Epoch: k.epoch, Query: k.query}.String()
}

// round is one pair of exec and count requests for a key
type round struct {
	key     fetchKey
	cancel  context.CancelFunc
	done    chan struct{}
	pending int

	exec         *models.DsDataSource
	count        *models.DsCount
	execErr      error
	countErr     error
	execLoading  bool
	countLoading bool
}

// Element owns the fetch state of one element
type Element struct {
	sess        *session.Session
	opts        Options
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	mu         sync.Mutex
	dataSource string
	query      models.Query
	current    *round
	cached     Snapshot
	closed     bool
}

// New creates an element bound to a session and a data source. Nothing is
// fetched until SetQuery, Refresh or Load is called.
func New(sess *session.Session, dataSource string, opts Options) (*Element, error) {
	if sess == nil {
		return nil, session.ErrUnresolvedContext
	}
	if dataSource == "" {
		return nil, session.ErrMissingDataSource
	}
	if opts.Timeout <= 0 {
		opts.Timeout = utils.DefaultFetchTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Element{
		sess:       sess,
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		dataSource: dataSource,
		query:      models.DefaultQuery(),
		cached:     emptySnapshot(),
	}, nil
}

// Watch refreshes the element on every refetch bump of its session. The
// gateway builds one element per request and never calls it; hosts that
// embed the package and keep elements alive across bumps do.
func (e *Element) Watch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.unsubscribe != nil || e.closed {
		return
	}
	e.unsubscribe = e.sess.OnRefetch(func(int64) {
		e.Refresh()
	})
}

// SetQuery replaces the query and fetches when the key changed
func (e *Element) SetQuery(q models.Query) {
	e.mu.Lock()
	e.query = q
	e.mu.Unlock()
	e.Refresh()
}

// SetDataSource switches the data source and fetches when the key changed.
// Like Watch, it serves hosts that keep a long-lived element.
func (e *Element) SetDataSource(name string) error {
	if name == "" {
		return session.ErrMissingDataSource
	}
	e.mu.Lock()
	e.dataSource = name
	e.mu.Unlock()
	e.Refresh()
	return nil
}

// Refresh recomputes the key and starts a new round when it changed
func (e *Element) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	key, err := e.keyLocked()
	if err != nil {
		elementLog.Error("Failed to serialize element query", "datasource", e.dataSource, "error", err)
		return
	}
	if e.current != nil && e.current.key == key {
		return
	}
	e.startLocked(key)
}

func (e *Element) keyLocked() (fetchKey, error) {
	payload := struct {
		Query       models.Query `json:"query"`
		RemoveEmpty bool         `json:"removeEmpty"`
	}{e.query, e.opts.RemoveFilterOnEmpty}
	data, err := json.Marshal(payload)
	if err != nil {
		return fetchKey{}, err
	}
	return fetchKey{dataSource: e.dataSource, query: string(data), epoch: e.sess.Refetch()}, nil
}

func (e *Element) startLocked(key fetchKey) {
	if prev := e.current; prev != nil {
		// superseded requests may still complete into the shared cache
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(e.ctx)
	r := &round{key: key, cancel: cancel, done: make(chan struct{})}
	e.current = r

	dsq := filtertree.ToDsQuery(e.query, e.opts.RemoveFilterOnEmpty, e.sess.Resolver())
	c := e.sess.Cache()

	var hit models.DsDataSource
	if c.GetJSON(key.cacheKey(cache.KindExec), &hit) {
		r.exec = &hit
	} else {
		r.execLoading = true
		r.pending++
	}

	if e.opts.UseCount {
		var hitCount models.DsCount
		if c.GetJSON(key.cacheKey(cache.KindCount), &hitCount) {
			r.count = &hitCount
		} else {
			r.countLoading = true
			r.pending++
		}
	}

	if r.pending == 0 {
		e.settleLocked(r)
		return
	}

	ds, err := e.sess.Registry().Resolve(key.dataSource)
	if err != nil {
		if r.execLoading {
			e.commitLocked(r, cache.KindExec, nil, nil, fmt.Errorf("resolve data source: %w", err))
		}
		if r.countLoading {
			e.commitLocked(r, cache.KindCount, nil, nil, fmt.Errorf("resolve data source: %w", err))
		}
		return
	}

	if r.execLoading {
		go func() {
			opCtx, opCancel := context.WithTimeout(ctx, e.opts.Timeout)
			defer opCancel()
			res, err := ds.Exec(opCtx, dsq)
			e.complete(r, cache.KindExec, &res, nil, err)
		}()
	}
	if r.countLoading {
		go func() {
			opCtx, opCancel := context.WithTimeout(ctx, e.opts.Timeout)
			defer opCancel()
			res, err := ds.Count(opCtx, dsq)
			e.complete(r, cache.KindCount, nil, &res, err)
		}()
	}
}

func (e *Element) complete(r *round, kind cache.Kind, exec *models.DsDataSource, count *models.DsCount, err error) {
	if err == nil {
		var value interface{} = exec
		if kind == cache.KindCount {
			value = count
		}
		if cerr := e.sess.Cache().SetJSON(r.key.cacheKey(kind), value); cerr != nil {
			elementLog.Warn("Failed to cache element result", "kind", string(kind), "error", cerr)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if r != e.current {
		elementLog.Debug("Discarded stale element result",
			"datasource", r.key.dataSource,
			"kind", string(kind),
			"epoch", r.key.epoch)
	}
	if err == nil {
		e.commitLocked(r, kind, exec, count, nil)
	} else {
		e.commitLocked(r, kind, nil, nil, err)
	}
}

// commitLocked records a settled operation on its own round. Only the
// current round feeds the cached snapshot.
func (e *Element) commitLocked(r *round, kind cache.Kind, exec *models.DsDataSource, count *models.DsCount, err error) {
	switch kind {
	case cache.KindExec:
		if !r.execLoading {
			return
		}
		r.execLoading = false
		r.exec, r.execErr = exec, err
	case cache.KindCount:
		if !r.countLoading {
			return
		}
		r.countLoading = false
		r.count, r.countErr = count, err
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		elementLog.Warn("Element request failed",
			"datasource", r.key.dataSource,
			"kind", string(kind),
			"error", err)
	}

	r.pending--
	if r.pending == 0 {
		e.settleLocked(r)
	}
}

func (e *Element) settleLocked(r *round) {
	if r == e.current {
		if r.exec != nil {
			e.cached.Cols = nonNilCols(r.exec.Cols)
			e.cached.Rows = nonNilRows(r.exec.Rows)
		}
		if r.count != nil {
			e.cached.Count = r.count.Count
		}
	}
	close(r.done)
}

// State returns the visible state. Data of the current round wins; whatever
// it lacks comes from the cached snapshot.
func (e *Element) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stateLocked()
}

func (e *Element) stateLocked() State {
	st := State{Data: Snapshot{
		Cols:  e.cached.Cols,
		Rows:  e.cached.Rows,
		Count: e.cached.Count,
	}}
	r := e.current
	if r == nil {
		return st
	}

	st.Key = r.key.query
	st.ExecLoading = r.execLoading
	st.CountLoading = r.countLoading
	st.ExecErr = r.execErr
	st.CountErr = r.countErr
	if e.opts.UseCount {
		st.Loading = r.execLoading || r.countLoading
	} else {
		st.Loading = r.execLoading
	}

	if r.exec != nil {
		st.Data.Cols = nonNilCols(r.exec.Cols)
		st.Data.Rows = nonNilRows(r.exec.Rows)
	}
	if r.count != nil {
		st.Data.Count = r.count.Count
	}
	return st
}

// Wait blocks until the current round settles. A round started while
// waiting is waited for as well.
func (e *Element) Wait(ctx context.Context) (State, error) {
	for {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return State{}, ErrClosed
		}
		r := e.current
		e.mu.Unlock()

		if r == nil {
			return e.State(), nil
		}

		select {
		case <-ctx.Done():
			return e.State(), ctx.Err()
		case <-r.done:
		}

		e.mu.Lock()
		settled := r == e.current
		st := e.stateLocked()
		e.mu.Unlock()
		if settled {
			return st, nil
		}
	}
}

// Load sets the query and waits for its results
func (e *Element) Load(ctx context.Context, q models.Query) (State, error) {
	e.SetQuery(q)
	return e.Wait(ctx)
}

// Close cancels in-flight requests and stops watching the session
func (e *Element) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.cancel()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

func nonNilCols(cols []models.DsColumn) []models.DsColumn {
	if cols == nil {
		return []models.DsColumn{}
	}
	return cols
}

func nonNilRows(rows [][]interface{}) [][]interface{} {
	if rows == nil {
		return [][]interface{}{}
	}
	return rows
}
