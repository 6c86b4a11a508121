package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Digital-Shane/reelshelf/internal/storage"
	"github.com/google/go-cmp/cmp"
)

// failingReplaceStore rejects any replacement that writes the given kind.
type failingReplaceStore struct {
	storage.Store
	kind storage.Kind
}

func (f failingReplaceStore) Replace(ctx context.Context, batches map[storage.Kind][]storage.Record) error {
	if len(batches[f.kind]) > 0 {
		return errors.New("disk full")
	}
	return f.Store.Replace(ctx, batches)
}

func seedCatalog(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	m, err := svc.AddMovie(ctx, "Heat", "https://host/heat.mp4", "")
	if err != nil {
		t.Fatalf("AddMovie() error = %v", err)
	}
	s, err := svc.QuickAdd(ctx, "https://host/Show.S01E01.720p.mkv", 2)
	if err != nil {
		t.Fatalf("QuickAdd() error = %v", err)
	}
	if _, err := svc.SaveHistory(ctx, History{ContentID: s.ID, CurrentEpisode: 2}); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}
	if _, err := svc.AddBookmark(ctx, m.ID, 0); err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}
	if _, err := svc.Rate(ctx, s.ID, 4); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
}

func TestExportImport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src, _ := newTestService(t)
	seedCatalog(t, src)
	snap, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(snap.Content) != 2 || len(snap.History) != 1 || len(snap.Bookmarks) != 1 || len(snap.Ratings) != 1 {
		t.Fatalf("Export() = %+v, want 2/1/1/1 records", snap)
	}

	dst, _ := newTestService(t)
	if _, err := dst.AddMovie(ctx, "Replaced", "https://host/old.mp4", ""); err != nil {
		t.Fatalf("AddMovie() error = %v", err)
	}
	if err := dst.Import(ctx, snap); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	got, err := dst.Export(ctx)
	if err != nil {
		t.Fatalf("Export() after import error = %v", err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("Import() mismatch (-want +got)\n%s", diff)
	}
}

func TestImportFailureKeepsCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src, _ := newTestService(t)
	seedCatalog(t, src)
	snap, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dst, store := newTestService(t)
	dst.store = failingReplaceStore{Store: store, kind: storage.KindRatings}
	existing, err := dst.AddMovie(ctx, "Existing", "https://host/existing.mp4", "")
	if err != nil {
		t.Fatalf("AddMovie() error = %v", err)
	}

	if err := dst.Import(ctx, snap); err == nil {
		t.Fatal("Import() error = nil, want store failure")
	}
	all, err := dst.GetAllContent(ctx)
	if err != nil {
		t.Fatalf("GetAllContent() error = %v", err)
	}
	if diff := cmp.Diff([]Content{existing}, all); diff != "" {
		t.Errorf("catalog after failed import mismatch (-want +got)\n%s", diff)
	}
}

func TestImportRejectsRecordsWithoutID(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc)

	bad := Snapshot{Content: []Content{{Title: "no id", Type: TypeMovie}}}
	if err := svc.Import(ctx, bad); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("Import() error = %v, want ErrInvalidContent", err)
	}
	all, _ := svc.GetAllContent(ctx)
	if len(all) != 2 {
		t.Errorf("catalog changed after rejected import: %d entries", len(all))
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc)

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	snap, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	want := Snapshot{Content: []Content{}, History: []History{}, Bookmarks: []Bookmark{}, Ratings: []Rating{}}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Export() after Clear() mismatch (-want +got)\n%s", diff)
	}
}
