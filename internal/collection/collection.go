// Package collection owns the authoritative in-memory task set and keeps
// it synchronized with the persistence adapter on every mutation.
package collection

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotsuka/todo-app/internal/model"
	"github.com/hotsuka/todo-app/internal/store"
)

// Listener receives a snapshot of the task sequence after every load or
// persist. Snapshots are value copies; listeners never see internal state.
type Listener func(tasks []model.Task)

type subscriber struct {
	id string
	fn Listener
}

// Collection is constructed once per session, populated by Load, and owns
// every task entity. All calls are serialized by the caller; there is no
// internal locking.
type Collection struct {
	tasks       []*model.Task
	adapter     *store.Adapter
	subscribers []subscriber
}

func New(adapter *store.Adapter) *Collection {
	return &Collection{adapter: adapter}
}

// Load replaces the in-memory set with whatever the adapter has stored
// and notifies subscribers. A broken store simply yields an empty set.
func (c *Collection) Load() {
	records := c.adapter.Load()
	c.tasks = make([]*model.Task, 0, len(records))
	for _, record := range records {
		c.tasks = append(c.tasks, model.NewTask(record))
	}
	c.notify()
}

// Persist writes every task through the adapter. Subscribers are notified
// regardless of the save outcome; a *store.StorageError is returned for
// the caller to surface, never retried here.
func (c *Collection) Persist() error {
	records := make([]model.Task, 0, len(c.tasks))
	for _, task := range c.tasks {
		records = append(records, task.Snapshot())
	}
	err := c.adapter.Save(records)
	c.notify()
	return err
}

// Add constructs a task, validates it, appends it and persists. On
// validation failure it returns a *model.ValidationError and mutates
// nothing. A returned *store.StorageError still means the task was added
// in memory.
func (c *Collection) Add(fields model.Task) (*model.Task, error) {
	task := model.NewTask(fields)
	if errs := task.Validate(); len(errs) > 0 {
		return nil, &model.ValidationError{Messages: errs}
	}
	c.tasks = append(c.tasks, task)
	return task, c.Persist()
}

// Update applies a partial field set to the task with the given ID. An
// unknown ID returns (nil, nil) with no side effect. The mutation happens
// in place before validation, so an invalid update leaves the entity
// modified; that matches the original behavior and is asserted by tests.
func (c *Collection) Update(id string, fields model.TaskUpdate) (*model.Task, error) {
	task := c.FindByID(id)
	if task == nil {
		return nil, nil
	}
	task.Update(fields)
	if errs := task.Validate(); len(errs) > 0 {
		return nil, &model.ValidationError{Messages: errs}
	}
	return task, c.Persist()
}

// Delete removes the task with the given ID. It persists only when a
// removal actually occurred.
func (c *Collection) Delete(id string) (bool, error) {
	for i, task := range c.tasks {
		if task.ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return true, c.Persist()
		}
	}
	return false, nil
}

// Toggle flips completion on the task with the given ID and persists.
func (c *Collection) Toggle(id string) (*model.Task, error) {
	task := c.FindByID(id)
	if task == nil {
		return nil, nil
	}
	task.ToggleComplete()
	return task, c.Persist()
}

// FindByID returns the first task with a matching ID, or nil.
func (c *Collection) FindByID(id string) *model.Task {
	for _, task := range c.tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

// Filter holds the selection criteria for Match. Zero-valued fields
// impose no constraint; supplied criteria combine conjunctively.
type Filter struct {
	Status   string // all, active, completed
	Priority string
	Category string
	Tag      string
	Search   string // case-insensitive, matches title or description
}

func (f Filter) Matches(task *model.Task) bool {
	switch f.Status {
	case "", "all":
	case "active":
		if task.Completed {
			return false
		}
	case "completed":
		if !task.Completed {
			return false
		}
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	if f.Category != "" && !contains(task.Categories, f.Category) {
		return false
	}
	if f.Tag != "" && !contains(task.Tags, f.Tag) {
		return false
	}
	if f.Search != "" {
		query := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			return false
		}
	}
	return true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// Match returns the tasks satisfying every supplied criterion, in current
// collection order.
func (c *Collection) Match(criteria Filter) []*model.Task {
	matched := []*model.Task{}
	for _, task := range c.tasks {
		if criteria.Matches(task) {
			matched = append(matched, task)
		}
	}
	return matched
}

// Sort returns a new slice ordered by the named field; the collection
// itself is untouched. Date fields compare by instant with absent or
// unparseable dates first; priority compares by rank high > medium > low.
// The sort is stable, so ties keep their relative input order.
func (c *Collection) Sort(field, order string) []*model.Task {
	sorted := append([]*model.Task{}, c.tasks...)
	less := fieldLess(field)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == "desc" {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func fieldLess(field string) func(a, b *model.Task) bool {
	switch field {
	case "priority":
		return func(a, b *model.Task) bool {
			return model.PriorityRank(a.Priority) < model.PriorityRank(b.Priority)
		}
	case "title":
		return func(a, b *model.Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "description":
		return func(a, b *model.Task) bool {
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}
	case "completed":
		return func(a, b *model.Task) bool {
			return !a.Completed && b.Completed
		}
	case "dueDate", "createdAt", "updatedAt", "completedAt":
		return func(a, b *model.Task) bool {
			return instant(dateField(a, field)).Before(instant(dateField(b, field)))
		}
	case "id":
		return func(a, b *model.Task) bool {
			return a.ID < b.ID
		}
	default:
		// Unknown field: keep the input order.
		return func(a, b *model.Task) bool { return false }
	}
}

func dateField(task *model.Task, field string) string {
	switch field {
	case "dueDate":
		return task.DueDate
	case "createdAt":
		return task.CreatedAt
	case "updatedAt":
		return task.UpdatedAt
	case "completedAt":
		return task.CompletedAt
	}
	return ""
}

// instant maps absent or unparseable dates to the zero time, which sorts
// before every real instant.
func instant(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// Stats are computed from the live set on every call, never cached.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Overdue   int `json:"overdue"`
	DueToday  int `json:"dueToday"`
}

func (c *Collection) Stats() Stats {
	stats := Stats{Total: len(c.tasks)}
	for _, task := range c.tasks {
		if task.Completed {
			stats.Completed++
		}
		if task.IsOverdue() {
			stats.Overdue++
		}
		if task.IsDueToday() {
			stats.DueToday++
		}
	}
	stats.Active = stats.Total - stats.Completed
	return stats
}

// AllCategories returns every distinct category, lexically sorted.
func (c *Collection) AllCategories() []string {
	return distinct(func(task *model.Task) []string { return task.Categories }, c.tasks)
}

// AllTags returns every distinct tag, lexically sorted.
func (c *Collection) AllTags() []string {
	return distinct(func(task *model.Task) []string { return task.Tags }, c.tasks)
}

func distinct(pick func(*model.Task) []string, tasks []*model.Task) []string {
	seen := map[string]bool{}
	for _, task := range tasks {
		for _, value := range pick(task) {
			seen[value] = true
		}
	}
	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// Clear empties the collection and persists the empty set.
func (c *Collection) Clear() error {
	c.tasks = []*model.Task{}
	return c.Persist()
}

// Subscribe registers a listener and returns its token. Listeners are
// invoked in subscription order; a panicking listener is not isolated.
func (c *Collection) Subscribe(fn Listener) string {
	id := uuid.NewString()
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return id
}

// Unsubscribe removes the listener registered under the given token.
func (c *Collection) Unsubscribe(id string) {
	for i, sub := range c.subscribers {
		if sub.id == id {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return
		}
	}
}

func (c *Collection) notify() {
	snapshot := make([]model.Task, 0, len(c.tasks))
	for _, task := range c.tasks {
		snapshot = append(snapshot, task.Snapshot())
	}
	for _, sub := range c.subscribers {
		sub.fn(snapshot)
	}
}
