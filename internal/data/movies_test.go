package data

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/liliang-cn/catalog/internal/validator"
)

func newTestModels(t *testing.T) Models {
	t.Helper()
	return NewModels(t.TempDir())
}

func newMovie(title, director string, duration Runtime) *Movie {
	return &Movie{Title: title, Director: director, Duration: duration}
}

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func TestMovieModelInsert(t *testing.T) {
	t.Run("assigns sequential ids", func(t *testing.T) {
		m := newTestModels(t).Movies

		for i, title := range []string{"A", "B", "C"} {
			movie := newMovie(title, "Y", 100)
			if err := m.Insert(movie); err != nil {
				t.Fatalf("insert %s: %v", title, err)
			}
			if movie.ID != int64(i+1) {
				t.Errorf("expected id %d, got %d", i+1, movie.ID)
			}
		}
	})

	t.Run("does not reuse ids after delete", func(t *testing.T) {
		m := newTestModels(t).Movies

		for _, title := range []string{"A", "B", "C"} {
			if err := m.Insert(newMovie(title, "Y", 100)); err != nil {
				t.Fatalf("insert: %v", err)
			}
		}
		if _, err := m.Delete(2); err != nil {
			t.Fatalf("delete: %v", err)
		}

		movie := newMovie("D", "Y", 100)
		if err := m.Insert(movie); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if movie.ID != 4 {
			t.Errorf("expected id 4, got %d", movie.ID)
		}

		all, err := m.GetAll(MovieFilters{})
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		seen := map[int64]bool{}
		for _, mv := range all {
			if seen[mv.ID] {
				t.Errorf("duplicate id %d", mv.ID)
			}
			seen[mv.ID] = true
		}
	})

	t.Run("rejects duplicate title and director", func(t *testing.T) {
		m := newTestModels(t).Movies

		if err := m.Insert(newMovie("X", "Y", 100)); err != nil {
			t.Fatalf("insert: %v", err)
		}

		err := m.Insert(newMovie("X", "Y", 100))
		if !errors.Is(err, ErrDuplicateRecord) {
			t.Fatalf("expected ErrDuplicateRecord, got %v", err)
		}

		// 同名但导演不同的电影可以创建
		if err := m.Insert(newMovie("X", "Z", 100)); err != nil {
			t.Errorf("insert with other director: %v", err)
		}
	})

	t.Run("refuses to wrap past the largest id", func(t *testing.T) {
		m := newTestModels(t).Movies

		if _, err := m.Replace(&Movie{ID: math.MaxInt64, Title: "Last", Director: "Y", Duration: 100}); err != nil {
			t.Fatalf("replace: %v", err)
		}

		for _, title := range []string{"A", "B"} {
			movie := newMovie(title, "Y", 100)
			err := m.Insert(movie)
			if !errors.Is(err, ErrIDSpaceExhausted) {
				t.Fatalf("insert %s: expected ErrIDSpaceExhausted, got %v (id %d)", title, err, movie.ID)
			}
			if movie.ID != 0 {
				t.Errorf("insert %s: id must stay unset, got %d", title, movie.ID)
			}
		}

		all, err := m.GetAll(MovieFilters{})
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		if len(all) != 1 || all[0].ID != math.MaxInt64 {
			t.Errorf("expected only the max-id movie to be stored, got %+v", all)
		}

		// 删除最大 ID 之后可以继续分配
		if _, err := m.Delete(math.MaxInt64); err != nil {
			t.Fatalf("delete: %v", err)
		}
		movie := newMovie("A", "Y", 100)
		if err := m.Insert(movie); err != nil {
			t.Fatalf("insert after delete: %v", err)
		}
		if movie.ID != 1 {
			t.Errorf("expected id 1, got %d", movie.ID)
		}
	})

	t.Run("concurrent inserts keep every record", func(t *testing.T) {
		m := newTestModels(t).Movies
		if err := m.Insert(newMovie("seed", "Y", 100)); err != nil {
			t.Fatalf("insert: %v", err)
		}

		const n = 40
		var wg sync.WaitGroup
		ids := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				movie := newMovie("movie", string(rune('A'+i)), 90)
				if err := m.Insert(movie); err != nil {
					t.Errorf("insert %d: %v", i, err)
					return
				}
				ids <- movie.ID
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := map[int64]bool{}
		for id := range ids {
			if seen[id] {
				t.Errorf("id %d assigned twice", id)
			}
			seen[id] = true
		}
		if len(seen) != n {
			t.Errorf("expected %d distinct ids, got %d", n, len(seen))
		}

		all, err := m.GetAll(MovieFilters{})
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		if len(all) != n+1 {
			t.Errorf("expected %d movies, got %d", n+1, len(all))
		}
	})
}

func TestMovieModelGetAll(t *testing.T) {
	m := newTestModels(t).Movies
	for _, mv := range []*Movie{
		newMovie("Un meurtre à Vinci", "Mr. Choquet", 125),
		newMovie("Le monstre du Loch Ness", "Gerard", 126),
		newMovie("Superman Homecoming", "Tony Parker", 150),
	} {
		if err := m.Insert(mv); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	tt := []struct {
		name    string
		filters MovieFilters
		want    []int64
	}{
		{"no filter", MovieFilters{}, []int64{1, 2, 3}},
		{"minimum 130", MovieFilters{MinimumDuration: 130}, []int64{3}},
		{"minimum inclusive", MovieFilters{MinimumDuration: 126}, []int64{2, 3}},
		{"nothing long enough", MovieFilters{MinimumDuration: 500}, []int64{}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			movies, err := m.GetAll(tc.filters)
			if err != nil {
				t.Fatalf("get all: %v", err)
			}
			if movies == nil {
				t.Fatal("expected empty slice, not nil")
			}
			if len(movies) != len(tc.want) {
				t.Fatalf("expected %d movies, got %d", len(tc.want), len(movies))
			}
			for i, id := range tc.want {
				if movies[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, movies[i].ID)
				}
			}
		})
	}
}

func TestMovieModelGetAndDelete(t *testing.T) {
	m := newTestModels(t).Movies
	movie := &Movie{Title: "X", Director: "Y", Duration: 100, Budget: floatPtr(1000)}
	if err := m.Insert(movie); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := m.Get(movie.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// 返回的是副本, 修改它不会影响存储
	*got.Budget = 1
	got.Title = "changed"
	again, err := m.Get(movie.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Title != "X" || *again.Budget != 1000 {
		t.Errorf("stored record was aliased: %+v", again)
	}

	deleted, err := m.Delete(movie.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Title != "X" {
		t.Errorf("expected deleted record to be returned, got %+v", deleted)
	}

	if _, err := m.Get(movie.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
	}
	if _, err := m.Delete(movie.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound on second delete, got %v", err)
	}
	if _, err := m.Get(0); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for id 0, got %v", err)
	}
}

func TestMovieModelUpdate(t *testing.T) {
	t.Run("only supplied fields change", func(t *testing.T) {
		m := newTestModels(t).Movies
		movie := &Movie{Title: "X", Director: "Y", Duration: 100, Budget: floatPtr(5), Description: "d", ImageURL: "https://example.com/x.png"}
		if err := m.Insert(movie); err != nil {
			t.Fatalf("insert: %v", err)
		}

		d := Runtime(140)
		updated, err := m.Update(movie.ID, MoviePatch{Duration: &d})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if updated.Duration != 140 {
			t.Errorf("expected duration 140, got %d", updated.Duration)
		}
		if updated.Title != "X" || updated.Director != "Y" || updated.Description != "d" ||
			updated.ImageURL != "https://example.com/x.png" || updated.Budget == nil || *updated.Budget != 5 {
			t.Errorf("unsupplied fields changed: %+v", updated)
		}

		stored, err := m.Get(movie.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if stored.Duration != 140 {
			t.Errorf("update not persisted: %+v", stored)
		}
	})

	t.Run("budget can be set and cleared", func(t *testing.T) {
		m := newTestModels(t).Movies
		movie := newMovie("X", "Y", 100)
		if err := m.Insert(movie); err != nil {
			t.Fatalf("insert: %v", err)
		}

		updated, err := m.Update(movie.ID, MoviePatch{Budget: SetFloat(250)})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Budget == nil || *updated.Budget != 250 {
			t.Fatalf("expected budget 250, got %v", updated.Budget)
		}

		updated, err = m.Update(movie.ID, MoviePatch{Title: strPtr("X2")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Budget == nil || *updated.Budget != 250 {
			t.Errorf("omitted budget must be kept, got %v", updated.Budget)
		}

		updated, err = m.Update(movie.ID, MoviePatch{Budget: NullableFloat{Set: true}})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Budget != nil {
			t.Errorf("expected budget cleared, got %v", *updated.Budget)
		}

		stored, err := m.Get(movie.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if stored.Budget != nil || stored.Title != "X2" {
			t.Errorf("unexpected stored record %+v", stored)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		m := newTestModels(t).Movies

		_, err := m.Update(42, MoviePatch{Title: strPtr("x")})
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestMovieModelReplace(t *testing.T) {
	t.Run("creates with the exact id", func(t *testing.T) {
		m := newTestModels(t).Movies

		created, err := m.Replace(&Movie{ID: 42, Title: "X", Director: "Y", Duration: 100})
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
		if !created {
			t.Error("expected created to be true")
		}

		got, err := m.Get(42)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Title != "X" {
			t.Errorf("unexpected record %+v", got)
		}

		// 后续新建从最大 ID 之后开始
		next := newMovie("Z", "Y", 100)
		if err := m.Insert(next); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if next.ID != 43 {
			t.Errorf("expected id 43, got %d", next.ID)
		}
	})

	t.Run("replaces every field", func(t *testing.T) {
		m := newTestModels(t).Movies
		movie := &Movie{Title: "X", Director: "Y", Duration: 100, Budget: floatPtr(10), Description: "long text"}
		if err := m.Insert(movie); err != nil {
			t.Fatalf("insert: %v", err)
		}

		created, err := m.Replace(&Movie{ID: movie.ID, Title: "X2", Director: "Y2", Duration: 90})
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
		if created {
			t.Error("expected created to be false")
		}

		got, err := m.Get(movie.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Description != "" || got.Budget != nil || got.Title != "X2" || got.Duration != 90 {
			t.Errorf("expected full replacement, got %+v", got)
		}

		all, _ := m.GetAll(MovieFilters{})
		if len(all) != 1 {
			t.Errorf("expected 1 movie, got %d", len(all))
		}
	})

	t.Run("rejects non positive id", func(t *testing.T) {
		m := newTestModels(t).Movies

		_, err := m.Replace(&Movie{ID: 0, Title: "X", Director: "Y", Duration: 100})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := verr.Errors["id"]; !ok {
			t.Errorf("expected id error, got %v", verr.Errors)
		}
		if _, err := os.Stat(m.File.Path()); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected no file to be written, stat err = %v", err)
		}
	})
}

func TestMovieModelCorruptStore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "movies.json"), []byte(`{"oops":`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	models := NewModels(dir)

	if _, err := models.Movies.GetAll(MovieFilters{}); !errors.Is(err, ErrCorruptStore) {
		t.Errorf("expected ErrCorruptStore from GetAll, got %v", err)
	}
	if err := models.Movies.Insert(newMovie("X", "Y", 100)); !errors.Is(err, ErrCorruptStore) {
		t.Errorf("expected ErrCorruptStore from Insert, got %v", err)
	}

	// 另一个集合不受影响
	if _, err := models.Texts.GetAll(TextFilters{}); err != nil {
		t.Errorf("texts should be readable, got %v", err)
	}
}

func TestValidateMovie(t *testing.T) {
	tt := []struct {
		name  string
		movie *Movie
		field string
	}{
		{"missing title", newMovie("", "Y", 100), "title"},
		{"blank director", newMovie("X", "  ", 100), "director"},
		{"missing duration", newMovie("X", "Y", 0), "duration"},
		{"negative duration", newMovie("X", "Y", -5), "duration"},
		{"zero budget", &Movie{Title: "X", Director: "Y", Duration: 90, Budget: floatPtr(0)}, "budget"},
		{"bad image url", &Movie{Title: "X", Director: "Y", Duration: 90, ImageURL: "poster.jpg"}, "imageUrl"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v := validator.New()
			ValidateMovie(v, tc.movie)

			if _, ok := v.Errors[tc.field]; !ok {
				t.Errorf("expected error on %s, got %v", tc.field, v.Errors)
			}
		})
	}

	v := validator.New()
	ValidateMovie(v, &Movie{Title: "X", Director: "Y", Duration: 90, Budget: floatPtr(10), ImageURL: "https://example.com/p.png"})
	if !v.Valid() {
		t.Errorf("expected a valid movie, got %v", v.Errors)
	}
}

func TestValidateMoviePatch(t *testing.T) {
	d := Runtime(-5)

	tt := []struct {
		name  string
		patch MoviePatch
		field string
	}{
		{"negative duration", MoviePatch{Duration: &d, Title: strPtr("new")}, "duration"},
		{"blank title", MoviePatch{Title: strPtr(" ")}, "title"},
		{"non positive budget", MoviePatch{Budget: SetFloat(-1)}, "budget"},
		{"bad image url", MoviePatch{ImageURL: strPtr("nope")}, "imageUrl"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v := validator.New()
			ValidateMoviePatch(v, tc.patch)

			if _, ok := v.Errors[tc.field]; !ok {
				t.Errorf("expected error on %s, got %v", tc.field, v.Errors)
			}
		})
	}

	v := validator.New()
	ValidateMoviePatch(v, MoviePatch{Budget: NullableFloat{Set: true}, ImageURL: strPtr("")})
	if !v.Valid() {
		t.Errorf("clearing budget and imageUrl must be valid, got %v", v.Errors)
	}
}

func TestMoviePatchBudgetJSON(t *testing.T) {
	tt := []struct {
		name  string
		body  string
		set   bool
		value *float64
	}{
		{"omitted", `{"title":"x"}`, false, nil},
		{"null", `{"budget":null}`, true, nil},
		{"number", `{"budget":12.5}`, true, floatPtr(12.5)},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var p MoviePatch
			if err := json.Unmarshal([]byte(tc.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if p.Budget.Set != tc.set {
				t.Errorf("expected Set=%v, got %v", tc.set, p.Budget.Set)
			}
			switch {
			case tc.value == nil && p.Budget.Value != nil:
				t.Errorf("expected nil value, got %v", *p.Budget.Value)
			case tc.value != nil && (p.Budget.Value == nil || *p.Budget.Value != *tc.value):
				t.Errorf("expected %v, got %v", *tc.value, p.Budget.Value)
			}
		})
	}

	var p MoviePatch
	if err := json.Unmarshal([]byte(`{"budget":"lots"}`), &p); err == nil {
		t.Error("expected an error for a string budget")
	}
}
