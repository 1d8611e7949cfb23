// Package store owns the task collection and the display preference. Every
// mutation goes through a Store method, is written back to the repository in
// full, and is then announced to subscribers.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

const (
	KeyTasks    = "tasks"
	KeyDarkMode = "darkMode"
)

var loadValidator = sync.OnceValues(newPayloadValidator)

// Snapshot is a copy of the store state handed to listeners.
type Snapshot struct {
	Tasks    []model.Task
	DarkMode bool
	Version  uint64
}

type Listener func(Snapshot)

type subscription struct {
	id int
	fn Listener
}

type Option func(*Store)

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.ids.now = now
		}
	}
}

type Store struct {
	repo      storage.Repository
	logger    *log.Logger
	ids       idGenerator
	tasks     []model.Task
	darkMode  bool
	version   uint64
	listeners []subscription
	nextSubID int
}

func New(repo storage.Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: log.New(io.Discard),
		ids:    idGenerator{now: time.Now},
		tasks:  []model.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces in-memory state with what the repository holds. Missing or
// malformed entries fall back to an empty list and light mode; nothing is
// reported to the caller.
func (s *Store) Load(ctx context.Context) {
	s.tasks = s.loadTasks(ctx)
	s.darkMode = s.loadDarkMode(ctx)
	for _, t := range s.tasks {
		s.ids.observe(t.ID)
	}
	s.version++
	s.logger.Debug("state loaded", "tasks", len(s.tasks), "dark_mode", s.darkMode)
	s.notify()
}

func (s *Store) loadTasks(ctx context.Context) []model.Task {
	raw, err := s.repo.Get(ctx, KeyTasks)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("read persisted tasks", "err", err)
		}
		return []model.Task{}
	}
	if isNullJSON(raw) {
		return []model.Task{}
	}
	if v, verr := loadValidator(); verr != nil {
		s.logger.Error("tasks schema unavailable", "err", verr)
	} else if err := v.Validate(raw); err != nil {
		s.logger.Warn("discarding malformed tasks", "err", err)
		return []model.Task{}
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		s.logger.Warn("discarding malformed tasks", "err", err)
		return []model.Task{}
	}
	tasks = slices.DeleteFunc(tasks, func(t model.Task) bool {
		if err := t.Validate(); err != nil {
			s.logger.Warn("dropping invalid task", "err", err)
			return true
		}
		return false
	})
	if err := model.CheckUniqueIDs(tasks); err != nil {
		s.logger.Warn("dropping duplicate tasks", "err", err)
		tasks = dedupeByID(tasks)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

func (s *Store) loadDarkMode(ctx context.Context) bool {
	raw, err := s.repo.Get(ctx, KeyDarkMode)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("read persisted theme", "err", err)
		}
		return false
	}
	var dark *bool
	if err := json.Unmarshal(raw, &dark); err != nil {
		s.logger.Warn("discarding malformed theme", "err", err)
		return false
	}
	return dark != nil && *dark
}

// Save writes both entries in full. Write failures are logged and otherwise
// ignored.
func (s *Store) Save(ctx context.Context) {
	tasks := s.tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Error("encode tasks", "err", err)
		return
	}
	if err := s.repo.Put(ctx, KeyTasks, payload); err != nil {
		s.logger.Error("persist tasks", "err", err)
	}
	theme, _ := json.Marshal(s.darkMode)
	if err := s.repo.Put(ctx, KeyDarkMode, theme); err != nil {
		s.logger.Error("persist theme", "err", err)
	}
}

// Add appends a task unless text is blank. The text is stored as given.
func (s *Store) Add(ctx context.Context, text string) (model.Task, bool) {
	if err := model.ValidateNewText(text); err != nil {
		return model.Task{}, false
	}
	task := model.Task{ID: s.ids.next(), Text: text}
	s.tasks = append(s.tasks, task)
	s.commit(ctx)
	return task, true
}

// Delete removes the task with id. It reports whether one was removed.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	idx := s.indexOf(id)
	if idx >= 0 {
		s.tasks = slices.Delete(s.tasks, idx, idx+1)
	}
	s.commit(ctx)
	return idx >= 0
}

func (s *Store) ToggleComplete(ctx context.Context, id int64) bool {
	idx := s.indexOf(id)
	if idx >= 0 {
		s.tasks[idx] = s.tasks[idx].Toggled()
	}
	s.commit(ctx)
	return idx >= 0
}

// Update replaces the text of the task with id. Empty text is accepted.
func (s *Store) Update(ctx context.Context, id int64, text string) bool {
	idx := s.indexOf(id)
	if idx >= 0 {
		s.tasks[idx] = s.tasks[idx].WithText(text)
	}
	s.commit(ctx)
	return idx >= 0
}

func (s *Store) SetTheme(ctx context.Context, dark bool) {
	s.darkMode = dark
	s.commit(ctx)
}

// Reset deletes every persisted entry and returns the store to an empty list in
// light mode. Ids already handed out are not reused.
func (s *Store) Reset(ctx context.Context) error {
	entries, err := s.repo.List(ctx, storage.EntryListFilter{})
	if err != nil {
		return fmt.Errorf("list persisted entries: %w", err)
	}
	for _, e := range entries {
		if err := s.repo.Delete(ctx, e.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", e.Key, err)
		}
	}
	s.tasks = []model.Task{}
	s.darkMode = false
	s.version++
	s.logger.Info("store reset", "entries", len(entries))
	s.notify()
	return nil
}

func (s *Store) Tasks() []model.Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Find(id int64) (model.Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx], true
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) DarkMode() bool { return s.darkMode }

// Version increases after every load and mutation.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Tasks: s.Tasks(), DarkMode: s.darkMode, Version: s.version}
}

// Subscribe registers fn for post-mutation snapshots. Calling the returned
// function removes it.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Store) commit(ctx context.Context) {
	s.version++
	s.Save(ctx)
	s.notify()
}

func (s *Store) notify() {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, sub := range slices.Clone(s.listeners) {
		sub.fn(snap)
	}
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func dedupeByID(tasks []model.Task) []model.Task {
	seen := make(map[int64]struct{}, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func isNullJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
