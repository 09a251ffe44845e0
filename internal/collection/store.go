package collection

import (
	"context"
	"errors"
	"sync"

	"github.com/josephgoksu/taskdeck/internal/gateway"
	"github.com/josephgoksu/taskdeck/internal/notify"
	"github.com/josephgoksu/taskdeck/models"
)

// Gateway is the remote service surface the store depends on. The concrete
// implementation is internal/gateway.Client; tests substitute a fake.
type Gateway interface {
	ListTasks(ctx context.Context, filter gateway.ListFilter) ([]models.Task, error)
	CreateTask(ctx context.Context, fields models.TaskFields) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, fields models.TaskFields) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Counts summarizes the current projection for the view footer.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

// Store owns the authoritative task set for one view. All reads and
// command methods are safe for concurrent use; network calls happen
// outside the lock so the view stays responsive while requests are in
// flight. Overlapping loads are guarded by a monotonic token: only the
// most recently issued load may replace the set.
type Store struct {
	mu  sync.Mutex
	gw  Gateway
	bus *notify.Bus

	// authoritative set, in server-returned then append order. byID
	// indexes into tasks.
	tasks []models.Task
	byID  map[int64]int

	query    Query
	page     int
	pageSize int

	loading   bool
	loadToken uint64
	closed    bool

	projection []models.Task
	window     Window
}

// NewStore creates an empty store bound to a gateway and a notification
// bus. A pageSize below 1 falls back to DefaultPageSize.
func NewStore(gw Gateway, bus *notify.Bus, pageSize int) *Store {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	s := &Store{
		gw:       gw,
		bus:      bus,
		byID:     make(map[int64]int),
		query:    DefaultQuery(),
		page:     1,
		pageSize: pageSize,
	}
	s.recompute()
	return s
}

// Close marks the store torn down. Results of requests issued before Close
// are discarded instead of applied.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Load fetches the task collection from the gateway and, on success,
// replaces the authoritative set. On failure the set is left untouched and
// one error notification is published. When loads overlap, only the most
// recently issued one is applied; a stale response is dropped silently.
func (s *Store) Load(ctx context.Context, hint gateway.ListFilter) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.loadToken++
	token := s.loadToken
	s.loading = true
	s.mu.Unlock()

	tasks, err := s.gw.ListTasks(ctx, hint)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || token != s.loadToken {
		// A newer load owns the collection now.
		return nil
	}
	s.loading = false
	if err != nil {
		s.publish(notify.Error, messageOf(err, "Failed to load tasks"))
		return err
	}
	s.replaceAll(tasks)
	s.recompute()
	return nil
}

// ApplyToggle optimistically flips a task's completed flag, then asks the
// gateway to confirm. If the gateway refuses, the flag is rolled back so
// the local set cannot drift from the server. Exactly one notification is
// published for the outcome.
func (s *Store) ApplyToggle(ctx context.Context, id int64, completed bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	idx, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return s.notFound(id)
	}
	prev := s.tasks[idx].Completed
	s.tasks[idx].Completed = completed
	s.recompute()
	s.mu.Unlock()

	confirmed, err := s.gw.UpdateTask(ctx, id, models.TaskFields{Completed: &completed})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err != nil {
		if i, ok := s.byID[id]; ok && s.tasks[i].Completed == completed {
			s.tasks[i].Completed = prev
			s.recompute()
		}
		s.publish(notify.Error, messageOf(err, "Failed to update task"))
		return err
	}
	if i, ok := s.byID[id]; ok {
		s.tasks[i] = confirmed
		s.recompute()
	}
	if completed {
		s.publish(notify.Success, "Task marked as complete!")
	} else {
		s.publish(notify.Success, "Task marked as incomplete!")
	}
	return nil
}

// ApplyUpdate validates the partial update locally, then sends it to the
// gateway. Validation failures block the action before any request; on
// success the server-confirmed task replaces the local one.
func (s *Store) ApplyUpdate(ctx context.Context, id int64, fields models.TaskFields) error {
	if err := models.ValidateFields(fields); err != nil {
		s.publish(notify.Error, err.Error())
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return s.notFound(id)
	}
	s.mu.Unlock()

	confirmed, err := s.gw.UpdateTask(ctx, id, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err != nil {
		s.publish(notify.Error, messageOf(err, "Failed to update task"))
		return err
	}
	if i, ok := s.byID[id]; ok {
		s.tasks[i] = confirmed
		s.recompute()
	}
	s.publish(notify.Success, "Task updated successfully!")
	return nil
}

// ApplyCreate validates the new task locally, then asks the gateway to
// create it. The confirmed task is appended to the authoritative set.
func (s *Store) ApplyCreate(ctx context.Context, title, description string) error {
	if err := models.ValidateTask(models.Task{Title: title, Description: description}); err != nil {
		s.publish(notify.Error, err.Error())
		return err
	}

	fields := models.TaskFields{Title: &title}
	if description != "" {
		fields.Description = &description
	}

	confirmed, err := s.gw.CreateTask(ctx, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err != nil {
		s.publish(notify.Error, messageOf(err, "Failed to create task"))
		return err
	}
	s.byID[confirmed.ID] = len(s.tasks)
	s.tasks = append(s.tasks, confirmed)
	s.recompute()
	s.publish(notify.Success, "Task created successfully!")
	return nil
}

// ApplyDelete asks the gateway to delete the task and removes it from the
// set only on confirmed success. Confirmation prompts belong to the caller;
// by the time this runs the user has already agreed.
func (s *Store) ApplyDelete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return s.notFound(id)
	}
	s.mu.Unlock()

	err := s.gw.DeleteTask(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err != nil {
		s.publish(notify.Error, messageOf(err, "Failed to delete task"))
		return err
	}
	s.remove(id)
	s.recompute()
	s.publish(notify.Success, "Task deleted successfully!")
	return nil
}

// SetSearch updates the search text. Any change resets to page 1.
func (s *Store) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Search == search {
		return
	}
	s.query.Search = search
	s.page = 1
	s.recompute()
}

// SetStatusFilter updates the status filter. Any change resets to page 1.
func (s *Store) SetStatusFilter(f models.StatusFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Status == f {
		return
	}
	s.query.Status = f
	s.page = 1
	s.recompute()
}

// SetSort updates the sort key. Any change resets to page 1.
func (s *Store) SetSort(k models.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query.Sort == k {
		return
	}
	s.query.Sort = k
	s.page = 1
	s.recompute()
}

// SetPage moves to the requested page, clamped into [1, TotalPages].
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.recompute()
}

// NextPage advances one page, clamped to the last page.
func (s *Store) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page++
	s.recompute()
}

// PrevPage goes back one page, clamped to page 1.
func (s *Store) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page--
	s.recompute()
}

// Page returns the current pagination window. The Items slice is shared
// with the store's projection and must be treated as read-only.
func (s *Store) Page() Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Query returns the current filter and ordering state.
func (s *Store) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Loading reports whether the most recently issued load is still in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Len returns the size of the authoritative set, ignoring filters.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Counts summarizes the current projection.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{Total: len(s.projection)}
	for _, t := range s.projection {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

// recompute rebuilds the projection and pagination window. Callers hold mu.
// The page is clamped here, so a projection that shrank below the current
// page snaps back into range on the next recompute.
func (s *Store) recompute() {
	s.projection = Project(s.tasks, s.query)
	win := Paginate(s.projection, s.pageSize, s.page)
	if s.page > win.TotalPages {
		s.page = win.TotalPages
		win = Paginate(s.projection, s.pageSize, s.page)
	}
	if s.page < 1 {
		s.page = 1
		win = Paginate(s.projection, s.pageSize, s.page)
	}
	s.window = win
}

// replaceAll swaps in a freshly loaded set. Callers hold mu.
func (s *Store) replaceAll(tasks []models.Task) {
	s.tasks = append([]models.Task(nil), tasks...)
	s.byID = make(map[int64]int, len(s.tasks))
	for i, t := range s.tasks {
		s.byID[t.ID] = i
	}
}

// remove drops one task and reindexes. Callers hold mu.
func (s *Store) remove(id int64) {
	idx, ok := s.byID[id]
	if !ok {
		return
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.tasks); i++ {
		s.byID[s.tasks[i].ID] = i
	}
}

func (s *Store) notFound(id int64) error {
	err := &NotFoundError{ID: id}
	s.publish(notify.Warning, "Task is no longer in this view. Refresh to reload.")
	return err
}

func (s *Store) publish(kind notify.Kind, message string) {
	s.bus.Publish(notify.Notification{Kind: kind, Message: message})
}

// messageOf prefers the service's human-readable message over Go error
// formatting, falling back when the error is not a gateway error.
func messageOf(err error, fallback string) string {
	var gerr *gateway.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
