package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/taskdeck/internal/gateway"
	"github.com/josephgoksu/taskdeck/internal/notify"
	"github.com/josephgoksu/taskdeck/models"
)

// fakeGateway satisfies Gateway in-process. Function fields override
// behavior per test; nil fields succeed with zero values.
type fakeGateway struct {
	mu          sync.Mutex
	listFn      func(filter gateway.ListFilter) ([]models.Task, error)
	createFn    func(fields models.TaskFields) (models.Task, error)
	updateFn    func(id int64, fields models.TaskFields) (models.Task, error)
	deleteFn    func(id int64) error
	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeGateway) ListTasks(_ context.Context, filter gateway.ListFilter) ([]models.Task, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(filter)
	}
	return nil, nil
}

func (f *fakeGateway) CreateTask(_ context.Context, fields models.TaskFields) (models.Task, error) {
	f.mu.Lock()
	f.createCalls++
	fn := f.createFn
	f.mu.Unlock()
	if fn != nil {
		return fn(fields)
	}
	return models.Task{}, nil
}

func (f *fakeGateway) UpdateTask(_ context.Context, id int64, fields models.TaskFields) (models.Task, error) {
	f.mu.Lock()
	f.updateCalls++
	fn := f.updateFn
	f.mu.Unlock()
	if fn != nil {
		return fn(id, fields)
	}
	return models.Task{}, nil
}

func (f *fakeGateway) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	f.deleteCalls++
	fn := f.deleteFn
	f.mu.Unlock()
	if fn != nil {
		return fn(id)
	}
	return nil
}

func (f *fakeGateway) counts() (list, create, update, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.updateCalls, f.deleteCalls
}

func seedTasks(n int) []models.Task {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Task, n)
	for i := range out {
		out[i] = models.Task{
			ID:        int64(i + 1),
			Owner:     "user-1",
			Title:     fmt.Sprintf("task %d", i+1),
			Completed: i%2 == 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

// newSeededStore loads a store with n generated tasks through the fake
// gateway, so the authoritative set is populated the same way production
// code populates it.
func newSeededStore(t *testing.T, n int) (*Store, *fakeGateway, *notify.Bus) {
	t.Helper()

	fake := &fakeGateway{
		listFn: func(gateway.ListFilter) ([]models.Task, error) {
			return seedTasks(n), nil
		},
	}
	bus := notify.NewBus()
	t.Cleanup(bus.Close)

	store := NewStore(fake, bus, 10)
	t.Cleanup(store.Close)
	if err := store.Load(context.Background(), gateway.ListFilter{}); err != nil {
		t.Fatalf("seed load failed: %v", err)
	}
	if store.Len() != n {
		t.Fatalf("seed load: got %d tasks, want %d", store.Len(), n)
	}
	return store, fake, bus
}

func requireNotifications(t *testing.T, bus *notify.Bus, want ...notify.Kind) []notify.Notification {
	t.Helper()
	active := bus.Active()
	if len(active) != len(want) {
		t.Fatalf("notifications: got %d (%+v), want %d", len(active), active, len(want))
	}
	for i, kind := range want {
		if active[i].Kind != kind {
			t.Errorf("notification %d: got kind %q, want %q", i, active[i].Kind, kind)
		}
	}
	return active
}

func TestStore_LoadFailureLeavesSetUntouched(t *testing.T) {
	store, fake, bus := newSeededStore(t, 3)

	fake.mu.Lock()
	fake.listFn = func(gateway.ListFilter) ([]models.Task, error) {
		return nil, &gateway.Error{Op: "list tasks", Message: "service unavailable"}
	}
	fake.mu.Unlock()

	if err := store.Load(context.Background(), gateway.ListFilter{}); err == nil {
		t.Fatal("expected load error")
	}
	if store.Len() != 3 {
		t.Errorf("failed load changed the set: len=%d, want 3", store.Len())
	}
	got := requireNotifications(t, bus, notify.Error)
	if got[0].Message != "service unavailable" {
		t.Errorf("notification message: got %q", got[0].Message)
	}
}

func TestStore_OverlappingLoads_StaleResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	fake := &fakeGateway{}
	var call int
	fake.listFn = func(gateway.ListFilter) ([]models.Task, error) {
		fake.mu.Lock()
		call++
		n := call
		fake.mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return []models.Task{{ID: 100, Title: "stale"}}, nil
		}
		return []models.Task{{ID: 200, Title: "fresh"}}, nil
	}

	bus := notify.NewBus()
	defer bus.Close()
	store := NewStore(fake, bus, 10)
	defer store.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.Load(context.Background(), gateway.ListFilter{})
	}()
	<-firstStarted

	// Second load issues while the first is still in flight and resolves
	// first.
	if err := store.Load(context.Background(), gateway.ListFilter{}); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	close(releaseFirst)
	wg.Wait()

	win := store.Page()
	if len(win.Items) != 1 || win.Items[0].ID != 200 {
		t.Errorf("stale response won: %+v", win.Items)
	}
}

func TestStore_Toggle_OptimisticThenConfirmed(t *testing.T) {
	store, fake, bus := newSeededStore(t, 1)

	fake.mu.Lock()
	fake.updateFn = func(id int64, fields models.TaskFields) (models.Task, error) {
		task := seedTasks(1)[0]
		task.Completed = *fields.Completed
		task.UpdatedAt = task.UpdatedAt.Add(time.Minute)
		return task, nil
	}
	fake.mu.Unlock()

	if err := store.ApplyToggle(context.Background(), 1, true); err != nil {
		t.Fatalf("ApplyToggle failed: %v", err)
	}

	win := store.Page()
	if !win.Items[0].Completed {
		t.Error("task should be completed after confirmed toggle")
	}
	got := requireNotifications(t, bus, notify.Success)
	if got[0].Message != "Task marked as complete!" {
		t.Errorf("notification message: got %q", got[0].Message)
	}
}

func TestStore_Toggle_RollsBackOnGatewayFailure(t *testing.T) {
	store, fake, bus := newSeededStore(t, 1)

	fake.mu.Lock()
	fake.updateFn = func(int64, models.TaskFields) (models.Task, error) {
		return models.Task{}, &gateway.Error{Op: "update task", Message: "conflict"}
	}
	fake.mu.Unlock()

	if err := store.ApplyToggle(context.Background(), 1, true); err == nil {
		t.Fatal("expected toggle error")
	}

	win := store.Page()
	if win.Items[0].Completed {
		t.Error("failed toggle must roll back the completed flag")
	}
	requireNotifications(t, bus, notify.Error)
}

func TestStore_Update_ValidationFailsFast(t *testing.T) {
	store, fake, bus := newSeededStore(t, 1)

	empty := ""
	err := store.ApplyUpdate(context.Background(), 1, models.TaskFields{Title: &empty})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *models.ValidationError, got %T", err)
	}

	if _, _, updates, _ := fake.counts(); updates != 0 {
		t.Errorf("validation failure must not reach the gateway, saw %d update calls", updates)
	}
	requireNotifications(t, bus, notify.Error)
}

func TestStore_Update_MergesConfirmedTask(t *testing.T) {
	store, fake, bus := newSeededStore(t, 1)

	fake.mu.Lock()
	fake.updateFn = func(id int64, fields models.TaskFields) (models.Task, error) {
		task := seedTasks(1)[0]
		task.Title = *fields.Title
		task.UpdatedAt = task.UpdatedAt.Add(time.Hour)
		return task, nil
	}
	fake.mu.Unlock()

	title := "Renamed"
	if err := store.ApplyUpdate(context.Background(), 1, models.TaskFields{Title: &title}); err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	win := store.Page()
	if win.Items[0].Title != "Renamed" {
		t.Errorf("title: got %q, want %q", win.Items[0].Title, "Renamed")
	}
	if !win.Items[0].UpdatedAt.After(win.Items[0].CreatedAt) {
		t.Error("updatedAt should be bumped past createdAt")
	}
	requireNotifications(t, bus, notify.Success)
}

func TestStore_Delete_FailureKeepsTask(t *testing.T) {
	store, fake, bus := newSeededStore(t, 2)

	fake.mu.Lock()
	fake.deleteFn = func(int64) error {
		return &gateway.Error{Op: "delete task", Message: "forbidden"}
	}
	fake.mu.Unlock()

	if err := store.ApplyDelete(context.Background(), 1); err == nil {
		t.Fatal("expected delete error")
	}
	if store.Len() != 2 {
		t.Errorf("failed delete removed a task: len=%d, want 2", store.Len())
	}
	found := false
	for _, task := range store.Page().Items {
		if task.ID == 1 {
			found = true
		}
	}
	if !found {
		t.Error("task 1 missing from projection after failed delete")
	}
	requireNotifications(t, bus, notify.Error)
}

func TestStore_Delete_RemovesOnConfirmedSuccess(t *testing.T) {
	store, _, bus := newSeededStore(t, 2)

	if err := store.ApplyDelete(context.Background(), 1); err != nil {
		t.Fatalf("ApplyDelete failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("len after delete: got %d, want 1", store.Len())
	}
	for _, task := range store.Page().Items {
		if task.ID == 1 {
			t.Error("deleted task still in projection")
		}
	}
	requireNotifications(t, bus, notify.Success)
}

func TestStore_Create_AppendsConfirmedTask(t *testing.T) {
	store, fake, bus := newSeededStore(t, 1)

	fake.mu.Lock()
	fake.createFn = func(fields models.TaskFields) (models.Task, error) {
		return models.Task{
			ID:        99,
			Owner:     "user-1",
			Title:     *fields.Title,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}, nil
	}
	fake.mu.Unlock()

	if err := store.ApplyCreate(context.Background(), "Write tests", ""); err != nil {
		t.Fatalf("ApplyCreate failed: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("len after create: got %d, want 2", store.Len())
	}
	requireNotifications(t, bus, notify.Success)
}

func TestStore_Create_ValidationBlocksRequest(t *testing.T) {
	store, fake, bus := newSeededStore(t, 0)

	if err := store.ApplyCreate(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected validation error")
	}
	if _, creates, _, _ := fake.counts(); creates != 0 {
		t.Errorf("validation failure must not reach the gateway, saw %d create calls", creates)
	}
	requireNotifications(t, bus, notify.Error)
}

func TestStore_UnknownTargetIsNoOp(t *testing.T) {
	store, fake, bus := newSeededStore(t, 1)

	err := store.ApplyToggle(context.Background(), 42, true)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if _, _, updates, _ := fake.counts(); updates != 0 {
		t.Errorf("unknown target must not reach the gateway, saw %d update calls", updates)
	}
	if store.Len() != 1 {
		t.Errorf("no-op changed the set: len=%d", store.Len())
	}
	requireNotifications(t, bus, notify.Warning)
}

func TestStore_QueryChangesResetPage(t *testing.T) {
	store, _, _ := newSeededStore(t, 25)

	reset := []struct {
		name   string
		change func()
	}{
		{"search", func() { store.SetSearch("task") }},
		{"status", func() { store.SetStatusFilter(models.FilterPending) }},
		{"sort", func() { store.SetSort(models.SortTitleAsc) }},
	}

	for _, tc := range reset {
		t.Run(tc.name, func(t *testing.T) {
			store.SetSearch("")
			store.SetStatusFilter(models.FilterAll)
			store.SetSort(models.SortCreatedDesc)
			store.SetPage(3)
			if got := store.Page().Page; got != 3 {
				t.Fatalf("setup page: got %d, want 3", got)
			}
			tc.change()
			if got := store.Page().Page; got != 1 {
				t.Errorf("%s change: page got %d, want 1", tc.name, got)
			}
		})
	}
}

func TestStore_SetPageClamps(t *testing.T) {
	store, _, _ := newSeededStore(t, 25)

	store.SetPage(99)
	if got := store.Page().Page; got != 3 {
		t.Errorf("page beyond end: got %d, want 3", got)
	}
	store.SetPage(-4)
	if got := store.Page().Page; got != 1 {
		t.Errorf("page below start: got %d, want 1", got)
	}

	store.SetPage(3)
	store.NextPage()
	if got := store.Page().Page; got != 3 {
		t.Errorf("NextPage past end: got %d, want 3", got)
	}
	store.SetPage(1)
	store.PrevPage()
	if got := store.Page().Page; got != 1 {
		t.Errorf("PrevPage past start: got %d, want 1", got)
	}
}

func TestStore_Counts(t *testing.T) {
	store, _, _ := newSeededStore(t, 5) // ids 2 and 4 completed

	c := store.Counts()
	if c.Total != 5 || c.Pending != 3 || c.Completed != 2 {
		t.Errorf("counts: got %+v", c)
	}

	store.SetStatusFilter(models.FilterCompleted)
	c = store.Counts()
	if c.Total != 2 || c.Pending != 0 || c.Completed != 2 {
		t.Errorf("filtered counts: got %+v", c)
	}
}

func TestStore_CloseDropsLateResults(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fake := &fakeGateway{
		listFn: func(gateway.ListFilter) ([]models.Task, error) {
			close(started)
			<-release
			return seedTasks(3), nil
		},
	}
	bus := notify.NewBus()
	defer bus.Close()
	store := NewStore(fake, bus, 10)

	done := make(chan error, 1)
	go func() { done <- store.Load(context.Background(), gateway.ListFilter{}) }()
	<-started

	store.Close()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("load after close should drop silently, got %v", err)
	}

	if store.Len() != 0 {
		t.Errorf("late result applied after Close: len=%d", store.Len())
	}
	if got := len(bus.Active()); got != 0 {
		t.Errorf("late result published notifications after Close: %d", got)
	}
}
