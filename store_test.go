package modernblog

import (
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/modernblog/storage"
)

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func setupTestRepository(t *testing.T) (*Repository, storage.Slot) {
	t.Helper()
	slot := storage.NewMemory()
	return NewRepository(slot, quietLogger()), slot
}

// failingSlot fails every operation, standing in for an unavailable medium.
type failingSlot struct{}

var errSlotDown = errors.New("slot unavailable")

func (failingSlot) Get(string) (string, error) { return "", errSlotDown }
func (failingSlot) Set(string, string) error   { return errSlotDown }
func (failingSlot) Remove(string) error        { return errSlotDown }

func TestLoadReturnsSamplesWhenEmpty(t *testing.T) {
	repo, _ := setupTestRepository(t)

	got := repo.Load()
	if !reflect.DeepEqual(got, SamplePosts()) {
		t.Errorf("Load on empty slot = %v, want sample posts", got)
	}
}

func TestLoadReturnsSamplesOnCorruptValue(t *testing.T) {
	for _, raw := range []string{"{not json", "null", `{"id":"x"}`, `[{"createdAt":"yesterday"}]`} {
		repo, slot := setupTestRepository(t)
		if err := slot.Set(PostsKey, raw); err != nil {
			t.Fatal(err)
		}
		if got := repo.Load(); len(got) != len(SamplePosts()) {
			t.Errorf("Load(%q) returned %d posts, want the samples", raw, len(got))
		}
	}
}

func TestLoadReturnsSamplesOnReadFailure(t *testing.T) {
	repo := NewRepository(failingSlot{}, quietLogger())
	if got := repo.Load(); len(got) != 3 {
		t.Errorf("Load on failing slot returned %d posts", len(got))
	}
}

func TestSaveFailurePropagates(t *testing.T) {
	repo := NewRepository(failingSlot{}, quietLogger())
	if err := repo.Save(SamplePosts()); !errors.Is(err, errSlotDown) {
		t.Errorf("Save error = %v, want wrapped errSlotDown", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo, _ := setupTestRepository(t)

	fixClock(t, time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC))
	posts := PrependPost(CreatePost(NewPost{
		Title:     "Round trip",
		Content:   "<p>Body</p>",
		Author:    "Jane",
		Tags:      []string{"go", "testing"},
		Published: true,
	}), SamplePosts())

	if err := repo.Save(posts); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := repo.Load()
	if len(got) != len(posts) {
		t.Fatalf("Load count = %d, want %d", len(got), len(posts))
	}
	for i := range posts {
		want, have := posts[i], got[i]
		if !want.CreatedAt.Equal(have.CreatedAt) || !want.UpdatedAt.Equal(have.UpdatedAt) {
			t.Errorf("post %d timestamps = %v/%v, want %v/%v", i, have.CreatedAt, have.UpdatedAt, want.CreatedAt, want.UpdatedAt)
		}
		want.CreatedAt, want.UpdatedAt = time.Time{}, time.Time{}
		have.CreatedAt, have.UpdatedAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(want, have) {
			t.Errorf("post %d = %+v, want %+v", i, have, want)
		}
	}
}

func TestSaveEmptyListIsKept(t *testing.T) {
	repo, _ := setupTestRepository(t)
	if err := repo.Save(nil); err != nil {
		t.Fatal(err)
	}
	if got := repo.Load(); len(got) != 0 {
		t.Errorf("Load after saving no posts = %d posts, want 0", len(got))
	}
}

func TestLoadParsesISODates(t *testing.T) {
	repo, slot := setupTestRepository(t)
	raw := `[{"id":"1","title":"T","content":"C","excerpt":"C","author":"A",` +
		`"createdAt":"2024-01-15T00:00:00.000Z","updatedAt":"2024-01-16T10:00:00.000Z","tags":["x"],"published":true}]`
	if err := slot.Set(PostsKey, raw); err != nil {
		t.Fatal(err)
	}
	got := repo.Load()
	if len(got) != 1 {
		t.Fatalf("Load count = %d", len(got))
	}
	if want := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC); !got[0].UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", got[0].UpdatedAt, want)
	}
}

func TestRepositoryOnSQLite(t *testing.T) {
	slot, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer slot.Close()
	repo := NewRepository(slot, quietLogger())

	posts := DeletePost("2", repo.Load())
	if err := repo.Save(posts); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := repo.Load()
	if len(got) != 2 {
		t.Fatalf("Load count = %d, want 2", len(got))
	}
	if _, ok := FindPost("2", got); ok {
		t.Error("deleted post came back")
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	repo, _ := setupTestRepository(t)
	cache := NewPostCache(repo, time.Hour)

	if n := len(cache.All()); n != 3 {
		t.Fatalf("All = %d, want 3", n)
	}
	if n := len(cache.Published()); n != 2 {
		t.Fatalf("Published = %d, want 2", n)
	}
	if _, ok := cache.GetPublished("3"); ok {
		t.Error("draft must not be served as published")
	}

	if err := repo.Save(DeletePost("1", cache.All())); err != nil {
		t.Fatal(err)
	}
	if n := len(cache.All()); n != 3 {
		t.Errorf("cache should still serve stale data before Invalidate, got %d", n)
	}
	cache.Invalidate()
	if n := len(cache.All()); n != 2 {
		t.Errorf("All after Invalidate = %d, want 2", n)
	}
	want := []string{"css", "design", "frontend"}
	if got := cache.PublishedTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("PublishedTags = %v, want %v", got, want)
	}
}
