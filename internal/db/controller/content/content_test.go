package content_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CodeCraft-Studio/studio-site/internal/db"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/query"
	"github.com/CodeCraft-Studio/studio-site/internal/db/repository"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		t = t.Add(time.Second)

		return t
	}
}

func setupStore(t *testing.T) (*content.Store, *gorm.DB) {
	t.Helper()

	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return content.New(query.New(gdb), repository.WithClock(tickingClock())), gdb
}

func TestExpertScenario(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	created, err := store.Experts.Create(ctx, content.ExpertInput{
		Name:       "A. Dev",
		Role:       "Engineer",
		Bio:        "x",
		Experience: "3y",
		Expertise:  []string{"Go", "SQL"},
	}.Values())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	all, err := store.Experts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A. Dev", all[0].Name)
	assert.ElementsMatch(t, []string{"Go", "SQL"}, all[0].Expertise)

	require.NoError(t, store.Experts.Update(ctx, created.ID, content.ExpertInput{Expertise: []string{"Rust"}}.Values()))

	got, err := store.Experts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust"}, got.Expertise)
	assert.Equal(t, "A. Dev", got.Name)
	assert.Equal(t, "Engineer", got.Role)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestCreateThenGetByID(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	in := content.ServiceInput{
		Title:       "Web apps",
		Description: "Full stack delivery",
		Image:       "/uploads/services/web.png",
		Features:    []string{"SSR", "APIs"},
		Benefits:    []string{"Speed"},
	}

	created, err := store.Services.Create(ctx, in.Values())
	require.NoError(t, err)

	got, err := store.Services.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.Image, got.Image)
	assert.Equal(t, in.Features, got.Features)
	assert.Equal(t, in.Benefits, got.Benefits)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestEmptyUpdateIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	created, err := store.Services.Create(ctx, content.ServiceInput{
		Title: "Cloud", Description: "Ops", Features: []string{"k8s"}, Benefits: []string{"uptime"},
	}.Values())
	require.NoError(t, err)

	require.NoError(t, store.Services.Update(ctx, created.ID, repository.Values{}))
	require.NoError(t, store.Services.Update(ctx, created.ID, content.ServiceInput{}.Values()))

	got, err := store.Services.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestClearVersusOmitCollection(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	created, err := store.Services.Create(ctx, content.ServiceInput{
		Title: "Cloud", Description: "Ops", Features: []string{"k8s", "terraform"}, Benefits: []string{"uptime"},
	}.Values())
	require.NoError(t, err)

	// omitted: features untouched, benefits cleared
	require.NoError(t, store.Services.Update(ctx, created.ID, content.ServiceInput{Benefits: []string{}}.Values()))

	got, err := store.Services.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"k8s", "terraform"}, got.Features)
	assert.Empty(t, got.Benefits)
	assert.NotNil(t, got.Benefits)
	assert.Equal(t, "Cloud", got.Title)
	assert.Equal(t, "Ops", got.Description)

	// scalars only: collections untouched
	require.NoError(t, store.Services.Update(ctx, created.ID, content.ServiceInput{Title: "Cloud native"}.Values()))

	got, err = store.Services.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cloud native", got.Title)
	assert.Equal(t, []string{"k8s", "terraform"}, got.Features)
	assert.Empty(t, got.Benefits)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store, gdb := setupStore(t)

	created, err := store.Experts.Create(ctx, content.ExpertInput{
		Name: "B", Role: "PM", Expertise: []string{"Scrum", "Roadmaps"},
	}.Values())
	require.NoError(t, err)

	require.NoError(t, store.Experts.Delete(ctx, created.ID))

	_, err = store.Experts.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	var children int64
	require.NoError(t, gdb.Table("expert_expertise").Where("expert_id = ?", created.ID).Count(&children).Error)
	assert.Zero(t, children)

	require.ErrorIs(t, store.Experts.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	store, gdb := setupStore(t)

	_, err := store.Experts.Create(ctx, content.ExpertInput{Name: "Kept", Role: "Dev"}.Values())
	require.NoError(t, err)

	before, err := store.Experts.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, gdb.Migrator().DropTable("expert_expertise"))

	_, err = store.Experts.Create(ctx, content.ExpertInput{
		Name: "Lost", Role: "Dev", Expertise: []string{"Go"},
	}.Values())
	require.Error(t, err)

	var parents int64
	require.NoError(t, gdb.Table("experts").Count(&parents).Error)
	assert.Equal(t, int64(len(before)), parents)
}

func TestGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	all, err := store.Industries.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, name := range []string{"Fintech", "Health", "Retail"} {
		_, err := store.Industries.Create(ctx, content.IndustryInput{Name: name}.Values())
		require.NoError(t, err)
	}

	all, err = store.Industries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Retail", all[0].Name)
	assert.Equal(t, "Health", all[1].Name)
	assert.Equal(t, "Fintech", all[2].Name)

	n, err := store.Industries.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestUnknownIDAndField(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	_, err := store.Industries.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Industries.Update(ctx, "missing", content.IndustryInput{Name: "x"}.Values())
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.Industries.Create(ctx, repository.Values{Scalars: map[string]string{"name; DROP TABLE": "x"}})
	require.ErrorIs(t, err, repository.ErrUnknownField)

	_, err = store.Industries.Create(ctx, repository.Values{Collections: map[string][]string{"tags": {"x"}}})
	require.ErrorIs(t, err, repository.ErrUnknownField)
}

func TestServerAssignedID(t *testing.T) {
	ctx := context.Background()

	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	store := content.New(query.New(gdb), repository.WithIDGenerator(func() string { return "fixed-id" }))

	created, err := store.Industries.Create(ctx, content.IndustryInput{Name: "Energy"}.Values())
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", created.ID)
}

func TestValidator(t *testing.T) {
	v := content.NewValidator()

	require.NoError(t, v.Create(content.ExpertInput{Name: "A", Role: "B"}))

	err := v.Create(content.ExpertInput{Name: "A"})
	require.ErrorIs(t, err, content.ErrInvalidInput)
	assert.Contains(t, err.Error(), "role is required")

	require.NoError(t, v.Update(content.ExpertInput{}))

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	err = v.Update(content.IndustryInput{Name: string(long)})
	require.ErrorIs(t, err, content.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name must be at most 255 characters")

	err = v.Update(content.ServiceInput{Features: []string{""}})
	require.ErrorIs(t, err, content.ErrInvalidInput)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, content.SplitLines(" Go \r\n\nSQL\n"))
	assert.Equal(t, []string{}, content.SplitLines(""))
}
