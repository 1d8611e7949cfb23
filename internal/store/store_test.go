package store

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"pgregory.net/rapid"
)

var fixedNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestStore(t *testing.T) (*Store, *storage.MemoryRepository) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	s := New(repo, WithClock(fixedClock))
	s.Load(context.Background())
	return s, repo
}

func texts(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return out
}

func TestLoadEmptyRepositoryDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	if s.Len() != 0 || s.DarkMode() {
		t.Fatalf("expected empty light-mode store, got len=%d dark=%v", s.Len(), s.DarkMode())
	}
	if s.Tasks() == nil {
		t.Fatal("expected non-nil empty task slice")
	}
}

func TestLoadMalformedFallsBackPerKey(t *testing.T) {
	cases := []struct {
		name      string
		tasks     string
		dark      string
		wantTasks int
		wantDark  bool
	}{
		{"garbage tasks, valid theme", "{oops", "true", 0, true},
		{"valid tasks, garbage theme", `[{"id":1,"text":"a","completed":false}]`, "yes", 1, false},
		{"null both", "null", "null", 0, false},
		{"wrong shape", `{"id":1}`, "false", 0, false},
		{"missing text", `[{"id":1,"completed":true}]`, "true", 0, true},
		{"missing completed defaults to incomplete", `[{"id":1,"text":"a","completed":false},{"id":2,"text":"b"}]`, "true", 2, true},
		{"invalid id drops only that task", `[{"id":0,"text":"a","completed":false},{"id":3,"text":"c","completed":true}]`, "false", 1, false},
		{"string id", `[{"id":"1","text":"a","completed":false}]`, "false", 0, false},
		{"zero id", `[{"id":0,"text":"a","completed":false}]`, "false", 0, false},
		{"fractional id", `[{"id":1.5,"text":"a","completed":false}]`, "false", 0, false},
		{"extra fields tolerated", `[{"id":1,"text":"a","completed":true,"color":"red"}]`, "true", 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			repo := storage.NewMemoryRepository()
			_ = repo.Put(ctx, KeyTasks, []byte(tc.tasks))
			_ = repo.Put(ctx, KeyDarkMode, []byte(tc.dark))

			s := New(repo)
			s.Load(ctx)
			if s.Len() != tc.wantTasks || s.DarkMode() != tc.wantDark {
				t.Fatalf("got len=%d dark=%v, want len=%d dark=%v", s.Len(), s.DarkMode(), tc.wantTasks, tc.wantDark)
			}
		})
	}
}

func TestLoadDropsDuplicateIDsKeepingFirst(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	_ = repo.Put(ctx, KeyTasks, []byte(`[
		{"id":5,"text":"first","completed":false},
		{"id":6,"text":"other","completed":true},
		{"id":5,"text":"second","completed":true}
	]`))
	s := New(repo)
	s.Load(ctx)
	if got := texts(s.Tasks()); strings.Join(got, ",") != "first,other" {
		t.Fatalf("unexpected tasks after dedupe: %v", got)
	}
}

func TestAddAppendsIncompleteTaskWithRawText(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	task, ok := s.Add(ctx, "  Buy milk ")
	if !ok {
		t.Fatal("expected add to succeed")
	}
	if task.Text != "  Buy milk " || task.Completed {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.ID != fixedNow.UnixMilli() {
		t.Fatalf("expected timestamp id, got %d", task.ID)
	}
	raw, err := repo.Get(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("tasks should be persisted after add: %v", err)
	}
	if !strings.Contains(string(raw), `"text":"  Buy milk "`) {
		t.Fatalf("unexpected persisted payload: %s", raw)
	}
}

func TestAddBlankIsNoOpWithoutSave(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	before := s.Version()
	for _, in := range []string{"", "   ", "\t"} {
		if _, ok := s.Add(ctx, in); ok {
			t.Fatalf("add(%q) should be rejected", in)
		}
	}
	if s.Len() != 0 || s.Version() != before {
		t.Fatalf("blank adds must not change state: len=%d version=%d", s.Len(), s.Version())
	}
	if _, err := repo.Get(ctx, KeyTasks); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("blank add must not write storage, got %v", err)
	}
}

func TestIDsAreUniqueWithinSameMillisecond(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		task, _ := s.Add(ctx, "x")
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, _ := s.Add(ctx, "a")
	b, _ := s.Add(ctx, "b")
	s.Delete(ctx, b.ID)
	c, _ := s.Add(ctx, "c")
	if c.ID == b.ID || c.ID == a.ID {
		t.Fatalf("id reused: a=%d b=%d c=%d", a.ID, b.ID, c.ID)
	}
}

func TestLoadSeedsIDsPastPersistedMax(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	future := fixedNow.Add(time.Hour).UnixMilli()
	_ = repo.Put(ctx, KeyTasks, []byte(`[{"id":`+strconv.FormatInt(future, 10)+`,"text":"later","completed":false}]`))
	s := New(repo, WithClock(fixedClock))
	s.Load(ctx)
	task, _ := s.Add(ctx, "now")
	if task.ID <= future {
		t.Fatalf("new id %d must exceed persisted %d", task.ID, future)
	}
}

func TestDeleteToggleUpdateAbsentIDAreNoOps(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Add(ctx, "keep")
	before := s.Tasks()
	if s.Delete(ctx, 42) || s.ToggleComplete(ctx, 42) || s.Update(ctx, 42, "x") {
		t.Fatal("absent id must report no match")
	}
	after := s.Tasks()
	if len(after) != 1 || after[0] != before[0] {
		t.Fatalf("state changed on absent id: %+v", after)
	}
}

func TestUpdateAcceptsEmptyText(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	task, _ := s.Add(ctx, "Buy milk")
	if !s.Update(ctx, task.ID, "") {
		t.Fatal("expected update to match")
	}
	got, ok := s.Find(task.ID)
	if !ok || got.Text != "" {
		t.Fatalf("expected empty text to be stored, got %+v", got)
	}
}

func TestScenarioToggleKeepsOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Add(ctx, "Buy milk")
	walk, _ := s.Add(ctx, "Walk dog")
	s.ToggleComplete(ctx, walk.ID)
	tasks := s.Tasks()
	if strings.Join(texts(tasks), ",") != "Buy milk,Walk dog" || !tasks[1].Completed || tasks[0].Completed {
		t.Fatalf("unexpected state: %+v", tasks)
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	s, repo := newTestStore(t)
	repo.FailPuts = errors.New("quota exceeded")
	task, ok := s.Add(context.Background(), "still in memory")
	if !ok || s.Len() != 1 {
		t.Fatalf("in-memory state must survive write failure: %+v", task)
	}
}

func TestRecordWithoutCompletedSurvivesNextSave(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	_ = repo.Put(ctx, KeyTasks, []byte(`[{"id":1,"text":"a","completed":false},{"id":2,"text":"b"}]`))

	s := New(repo, WithClock(fixedClock))
	s.Load(ctx)
	s.Add(ctx, "c")

	reloaded := New(repo)
	reloaded.Load(ctx)
	if got := strings.Join(texts(reloaded.Tasks()), ","); got != "a,b,c" {
		t.Fatalf("expected all records kept, got %s", got)
	}
	if reloaded.Tasks()[1].Completed {
		t.Fatalf("missing completed should load as incomplete: %+v", reloaded.Tasks()[1])
	}
}

func TestResetClearsPersistedEntries(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	first, _ := s.Add(ctx, "a")
	s.SetTheme(ctx, true)
	var notified int
	s.Subscribe(func(Snapshot) { notified++ })
	before := s.Version()

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Len() != 0 || s.DarkMode() || s.Version() <= before || notified != 1 {
		t.Fatalf("unexpected state after reset: len=%d dark=%v version=%d notified=%d", s.Len(), s.DarkMode(), s.Version(), notified)
	}
	entries, err := repo.List(ctx, storage.EntryListFilter{})
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected no persisted entries, got %v err=%v", entries, err)
	}
	if next, _ := s.Add(ctx, "b"); next.ID <= first.ID {
		t.Fatalf("ids must not be reused after reset: %d <= %d", next.ID, first.ID)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(context.Background(), "a")
	tasks := s.Tasks()
	tasks[0].Text = "mutated"
	if got, _ := s.Find(tasks[0].ID); got.Text != "a" {
		t.Fatalf("store leaked internal slice: %+v", got)
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	task, _ := s.Add(ctx, "a")
	s.SetTheme(ctx, true)
	unsubscribe()
	s.Delete(ctx, task.ID)

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if len(got[0].Tasks) != 1 || got[0].DarkMode {
		t.Fatalf("unexpected first snapshot: %+v", got[0])
	}
	if !got[1].DarkMode || got[1].Version <= got[0].Version {
		t.Fatalf("unexpected second snapshot: %+v", got[1])
	}
}

func TestRoundTripAcrossBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, driver := range []storage.Driver{storage.DriverSQLite, storage.DriverFile} {
		t.Run(string(driver), func(t *testing.T) {
			path := filepath.Join(dir, "roundtrip-"+string(driver))
			repo, err := storage.Open(ctx, driver, path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			s := New(repo, WithClock(fixedClock))
			s.Load(ctx)
			a, _ := s.Add(ctx, "Buy milk")
			s.Add(ctx, "Walk dog")
			s.ToggleComplete(ctx, a.ID)
			s.SetTheme(ctx, true)
			want := s.Tasks()
			_ = repo.Close()

			reopened, err := storage.Open(ctx, driver, path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer reopened.Close()
			fresh := New(reopened)
			fresh.Load(ctx)
			got := fresh.Tasks()
			if len(got) != len(want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("task %d = %+v, want %+v", i, got[i], want[i])
				}
			}
			if !fresh.DarkMode() {
				t.Fatal("expected dark mode to round-trip")
			}
		})
	}
}

func TestAddNonBlankGrowsByOneProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New(storage.NewMemoryRepository())
		ctx := context.Background()
		for _, seed := range rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 5).Draw(rt, "seed") {
			s.Add(ctx, seed)
		}
		text := rapid.StringMatching(`\s{0,3}[A-Za-z0-9][A-Za-z0-9 ]{0,30}`).Draw(rt, "text")
		before := s.Len()
		task, ok := s.Add(ctx, text)
		if !ok || s.Len() != before+1 || task.Completed {
			rt.Fatalf("add(%q): ok=%v len %d->%d task=%+v", text, ok, before, s.Len(), task)
		}
	})
}

func TestBlankAddNeverGrowsProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New(storage.NewMemoryRepository())
		text := rapid.StringMatching(`[ \t\n]{0,10}`).Draw(rt, "blank")
		if _, ok := s.Add(context.Background(), text); ok || s.Len() != 0 {
			rt.Fatalf("blank add(%q) changed the store", text)
		}
	})
}

func TestDeleteTwiceIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New(storage.NewMemoryRepository())
		ctx := context.Background()
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		for i := 0; i < n; i++ {
			s.Add(ctx, "task")
		}
		tasks := s.Tasks()
		victim := tasks[rapid.IntRange(0, n-1).Draw(rt, "victim")]
		s.Delete(ctx, victim.ID)
		afterFirst := s.Tasks()
		if s.Delete(ctx, victim.ID) {
			rt.Fatalf("second delete of %d reported a match", victim.ID)
		}
		afterSecond := s.Tasks()
		if len(afterFirst) != n-1 || len(afterSecond) != n-1 {
			rt.Fatalf("unexpected lengths %d/%d for n=%d", len(afterFirst), len(afterSecond), n)
		}
	})
}

func TestToggleTwiceRestoresProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New(storage.NewMemoryRepository())
		ctx := context.Background()
		task, _ := s.Add(ctx, "x")
		if rapid.Bool().Draw(rt, "startCompleted") {
			s.ToggleComplete(ctx, task.ID)
		}
		orig, _ := s.Find(task.ID)
		s.ToggleComplete(ctx, task.ID)
		s.ToggleComplete(ctx, task.ID)
		got, _ := s.Find(task.ID)
		if got.Completed != orig.Completed {
			rt.Fatalf("toggle twice changed completed: %v -> %v", orig.Completed, got.Completed)
		}
	})
}

func TestSaveLoadRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		repo := storage.NewMemoryRepository()
		s := New(repo)
		for _, text := range rapid.SliceOfN(rapid.StringMatching(`[^\s]{1,12}`), 0, 10).Draw(rt, "texts") {
			task, _ := s.Add(ctx, text)
			if rapid.Bool().Draw(rt, "toggle") {
				s.ToggleComplete(ctx, task.ID)
			}
		}
		s.SetTheme(ctx, rapid.Bool().Draw(rt, "dark"))

		fresh := New(repo)
		fresh.Load(ctx)
		want, got := s.Tasks(), fresh.Tasks()
		if len(want) != len(got) || fresh.DarkMode() != s.DarkMode() {
			rt.Fatalf("round trip mismatch: %+v vs %+v", want, got)
		}
		for i := range want {
			if want[i] != got[i] {
				rt.Fatalf("task %d: %+v != %+v", i, want[i], got[i])
			}
		}
	})
}
