package collection

import (
	"errors"
	"testing"
	"time"

	"github.com/hotsuka/todo-app/internal/model"
	"github.com/hotsuka/todo-app/internal/store"
)

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	adapter := store.NewAdapter(store.NewFileKV(t.TempDir()), "todoApp", "1.0.0")
	col := New(adapter)
	col.Load()
	return col
}

func TestAddAndFindByID(t *testing.T) {
	col := newTestCollection(t)

	task, err := col.Add(model.Task{Title: "Buy milk", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.ID == "" {
		t.Fatal("Expected a system-assigned ID")
	}

	found := col.FindByID(task.ID)
	if found == nil {
		t.Fatal("Expected to find the new task by ID")
	}
	if found.Title != "Buy milk" || found.Priority != model.PriorityHigh {
		t.Error("Expected supplied fields to survive")
	}
	if found.Completed {
		t.Error("Expected default completed=false")
	}
	if found.CreatedAt == "" || found.UpdatedAt == "" {
		t.Error("Expected system-assigned timestamps")
	}
}

func TestAddValidationFailureMutatesNothing(t *testing.T) {
	col := newTestCollection(t)

	_, err := col.Add(model.Task{Title: "   "})
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected a *model.ValidationError, got %v", err)
	}
	if col.Stats().Total != 0 {
		t.Error("Expected failed add to leave the collection empty")
	}
}

func TestUpdateUnknownIDHasNoSideEffect(t *testing.T) {
	col := newTestCollection(t)
	col.Add(model.Task{Title: "Only task"})

	title := "Never applied"
	task, err := col.Update("missing", model.TaskUpdate{Title: &title})
	if task != nil || err != nil {
		t.Errorf("Expected (nil, nil) for unknown ID, got (%v, %v)", task, err)
	}
}

func TestUpdateWithEmptyTitleDoesNotRollBack(t *testing.T) {
	col := newTestCollection(t)
	victim, _ := col.Add(model.Task{Title: "Victim"})
	bystander, _ := col.Add(model.Task{Title: "Bystander"})

	empty := ""
	_, err := col.Update(victim.ID, model.TaskUpdate{Title: &empty})
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected a *model.ValidationError, got %v", err)
	}

	// The mutation is not rolled back: the entity keeps the bad title and
	// re-running Validate still reports it.
	if victim.Title != "" {
		t.Errorf("Expected in-place mutation to stick, got title %q", victim.Title)
	}
	if errs := victim.Validate(); len(errs) == 0 {
		t.Error("Expected the mutated entity to still fail validation")
	}

	// Other entities are untouched.
	if bystander.Title != "Bystander" {
		t.Errorf("Expected other tasks to be unaffected, got %q", bystander.Title)
	}
}

func TestDelete(t *testing.T) {
	col := newTestCollection(t)
	task, _ := col.Add(model.Task{Title: "Delete me"})

	removed, err := col.Delete(task.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Error("Expected removal to be reported")
	}
	if col.FindByID(task.ID) != nil {
		t.Error("Expected task to be gone")
	}

	removed, err = col.Delete(task.ID)
	if removed || err != nil {
		t.Errorf("Expected second delete to be a no-op, got (%v, %v)", removed, err)
	}
}

func TestToggle(t *testing.T) {
	col := newTestCollection(t)
	task, _ := col.Add(model.Task{Title: "Flip me"})

	toggled, err := col.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !toggled.Completed || toggled.CompletedAt == "" {
		t.Error("Expected toggled task to be completed with completedAt set")
	}

	if missing, _ := col.Toggle("missing"); missing != nil {
		t.Error("Expected nil for unknown ID")
	}
}

func TestMatchIsConjunctive(t *testing.T) {
	col := newTestCollection(t)
	a, _ := col.Add(model.Task{Title: "A", Priority: model.PriorityHigh})
	b, _ := col.Add(model.Task{Title: "B", Priority: model.PriorityHigh})
	c, _ := col.Add(model.Task{Title: "C", Priority: model.PriorityHigh})
	done, _ := col.Add(model.Task{Title: "D", Priority: model.PriorityHigh})
	col.Toggle(done.ID)
	col.Add(model.Task{Title: "E", Priority: model.PriorityLow})

	matched := col.Match(Filter{Status: "active", Priority: model.PriorityHigh})
	if len(matched) != 3 {
		t.Fatalf("Expected exactly 3 tasks, got %d", len(matched))
	}
	// Insertion order preserved.
	if matched[0].ID != a.ID || matched[1].ID != b.ID || matched[2].ID != c.ID {
		t.Error("Expected matches in original insertion order")
	}
}

func TestMatchByCategoryTagAndSearch(t *testing.T) {
	col := newTestCollection(t)
	col.Add(model.Task{Title: "Mow the lawn", Categories: []string{"garden"}, Tags: []string{"weekend"}})
	col.Add(model.Task{Title: "File taxes", Description: "Before the LAWN party", Categories: []string{"admin"}})

	if got := len(col.Match(Filter{Category: "garden"})); got != 1 {
		t.Errorf("Expected 1 garden task, got %d", got)
	}
	if got := len(col.Match(Filter{Tag: "#weekend"})); got != 1 {
		t.Errorf("Expected 1 weekend task, got %d", got)
	}
	// Search is case-insensitive and matches title OR description.
	if got := len(col.Match(Filter{Search: "lawn"})); got != 2 {
		t.Errorf("Expected 2 lawn matches, got %d", got)
	}
	if got := len(col.Match(Filter{Search: "lawn", Category: "garden"})); got != 1 {
		t.Errorf("Expected criteria to combine conjunctively, got %d", got)
	}
}

func TestSortByPriorityIsStable(t *testing.T) {
	col := newTestCollection(t)
	col.Add(model.Task{Title: "low", Priority: model.PriorityLow})
	firstHigh, _ := col.Add(model.Task{Title: "high-1", Priority: model.PriorityHigh})
	col.Add(model.Task{Title: "medium", Priority: model.PriorityMedium})
	secondHigh, _ := col.Add(model.Task{Title: "high-2", Priority: model.PriorityHigh})

	sorted := col.Sort("priority", "desc")
	want := []string{"high", "high", "medium", "low"}
	for i, priority := range want {
		if sorted[i].Priority != priority {
			t.Fatalf("Position %d: expected %s, got %s", i, priority, sorted[i].Priority)
		}
	}
	if sorted[0].ID != firstHigh.ID || sorted[1].ID != secondHigh.ID {
		t.Error("Expected the two high tasks to keep their relative order")
	}

	// The live collection is untouched.
	all := col.Match(Filter{})
	if all[0].Priority != model.PriorityLow {
		t.Error("Expected the collection order to be unchanged after Sort")
	}
}

func TestSortByDueDateAbsentFirst(t *testing.T) {
	col := newTestCollection(t)
	later, _ := col.Add(model.Task{Title: "later", DueDate: "2030-06-01"})
	undated, _ := col.Add(model.Task{Title: "undated"})
	sooner, _ := col.Add(model.Task{Title: "sooner", DueDate: "2029-01-15"})

	sorted := col.Sort("dueDate", "asc")
	if sorted[0].ID != undated.ID {
		t.Errorf("Expected undated task first, got %q", sorted[0].Title)
	}
	if sorted[1].ID != sooner.ID || sorted[2].ID != later.ID {
		t.Error("Expected dated tasks in ascending due order")
	}
}

func TestStatsOnEmptyCollection(t *testing.T) {
	col := newTestCollection(t)

	stats := col.Stats()
	if stats != (Stats{}) {
		t.Errorf("Expected all-zero stats, got %+v", stats)
	}
}

func TestStatsCounts(t *testing.T) {
	col := newTestCollection(t)
	yesterday := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	today := time.Now().Format("2006-01-02")

	col.Add(model.Task{Title: "overdue", DueDate: yesterday})
	// Completed so it cannot also count as overdue; due-today ignores
	// completion status.
	dueToday, _ := col.Add(model.Task{Title: "due today", DueDate: today})
	col.Toggle(dueToday.ID)
	done, _ := col.Add(model.Task{Title: "done"})
	col.Toggle(done.ID)

	stats := col.Stats()
	if stats.Total != 3 || stats.Completed != 2 || stats.Active != 1 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if stats.Overdue != 1 {
		t.Errorf("Expected 1 overdue, got %d", stats.Overdue)
	}
	if stats.DueToday != 1 {
		t.Errorf("Expected 1 due today, got %d", stats.DueToday)
	}
}

func TestAllCategoriesAndTags(t *testing.T) {
	col := newTestCollection(t)
	col.Add(model.Task{Title: "a", Categories: []string{"work", "deep"}, Tags: []string{"focus"}})
	col.Add(model.Task{Title: "b", Categories: []string{"work"}, Tags: []string{"focus", "later"}})

	categories := col.AllCategories()
	if len(categories) != 2 || categories[0] != "deep" || categories[1] != "work" {
		t.Errorf("Expected deduplicated sorted categories, got %v", categories)
	}

	tags := col.AllTags()
	if len(tags) != 2 || tags[0] != "#focus" || tags[1] != "#later" {
		t.Errorf("Expected deduplicated sorted tags, got %v", tags)
	}
}

func TestClear(t *testing.T) {
	col := newTestCollection(t)
	col.Add(model.Task{Title: "gone"})

	if err := col.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if col.Stats().Total != 0 {
		t.Error("Expected an empty collection after clear")
	}
}

func TestPersistenceAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	adapter := store.NewAdapter(store.NewFileKV(dir), "todoApp", "1.0.0")

	first := New(adapter)
	first.Load()
	task, err := first.Add(model.Task{Title: "Survive restart", Tags: []string{"persist"}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	second := New(store.NewAdapter(store.NewFileKV(dir), "todoApp", "1.0.0"))
	second.Load()

	found := second.FindByID(task.ID)
	if found == nil {
		t.Fatal("Expected the task to survive a fresh session")
	}
	if found.Title != "Survive restart" || found.Tags[0] != "#persist" {
		t.Error("Expected fields to round-trip through the envelope")
	}
}

func TestSubscribersAreNotifiedInOrder(t *testing.T) {
	col := newTestCollection(t)

	var order []string
	col.Subscribe(func(tasks []model.Task) { order = append(order, "first") })
	secondID := col.Subscribe(func(tasks []model.Task) { order = append(order, "second") })

	col.Add(model.Task{Title: "notify"})
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Expected listeners in subscription order, got %v", order)
	}

	order = nil
	col.Unsubscribe(secondID)
	col.Add(model.Task{Title: "again"})
	if len(order) != 1 || order[0] != "first" {
		t.Errorf("Expected only the remaining listener, got %v", order)
	}
}

func TestNotifyOnLoadAndPersist(t *testing.T) {
	col := newTestCollection(t)

	calls := 0
	col.Subscribe(func(tasks []model.Task) { calls++ })

	col.Load()
	if calls != 1 {
		t.Errorf("Expected notification on load, got %d calls", calls)
	}

	col.Persist()
	if calls != 2 {
		t.Errorf("Expected notification on persist, got %d calls", calls)
	}
}

func TestListenersReceiveSnapshots(t *testing.T) {
	col := newTestCollection(t)

	var received []model.Task
	col.Subscribe(func(tasks []model.Task) { received = tasks })

	task, _ := col.Add(model.Task{Title: "protect me", Tags: []string{"safe"}})

	if len(received) != 1 {
		t.Fatalf("Expected 1 task in the snapshot, got %d", len(received))
	}
	received[0].Title = "mutated"
	received[0].Tags[0] = "mutated"

	if task.Title != "protect me" || task.Tags[0] != "#safe" {
		t.Error("Expected listener mutations to not reach the collection")
	}
}
