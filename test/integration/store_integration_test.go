//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

var durableDrivers = []string{storage.DriverBadger, storage.DriverSQLite}

// TestStore_SurvivesRestart verifies that quotes and the selected category
// are read back by a new process over the same storage.
func TestStore_SurvivesRestart(t *testing.T) {
	for _, driver := range durableDrivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			svc, err := startService(driver, dir)
			require.NoError(t, err)

			added, err := svc.store.AddQuote(ctx, "Persistence is a feature.", "Engineering")
			require.NoError(t, err)
			require.NoError(t, svc.store.SetSelectedCategory(ctx, "Engineering"))

			_, ok := svc.store.GetRandomQuote(ctx, "Engineering")
			require.True(t, ok)
			require.NoError(t, svc.Close())

			restarted, err := startService(driver, dir)
			require.NoError(t, err)
			t.Cleanup(func() { _ = restarted.Close() })

			quotes := restarted.store.Load(ctx)
			assert.Len(t, quotes, len(domain.SeedQuotes())+1)
			assert.Contains(t, quotes, added)
			assert.Equal(t, "Engineering", restarted.store.SelectedCategory(ctx))

			// The last viewed quote is session state and starts empty.
			_, ok = restarted.store.LastViewed(ctx)
			assert.False(t, ok)
		})
	}
}

// TestStore_ConcurrentAdds verifies that concurrent adds and imports all land
// without losing updates.
func TestStore_ConcurrentAdds(t *testing.T) {
	for _, driver := range durableDrivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			svc, err := startService(driver, dir)
			require.NoError(t, err)

			const writers = 20

			var wg sync.WaitGroup
			for i := range writers {
				wg.Add(2)

				go func() {
					defer wg.Done()
					_, err := svc.store.AddQuote(ctx, fmt.Sprintf("Added quote %d", i), "Concurrency")
					assert.NoError(t, err)
				}()

				go func() {
					defer wg.Done()
					payload := fmt.Sprintf(`[{"text":"Imported quote %d","category":"Concurrency"}]`, i)
					_, err := svc.store.ImportJSON(ctx, []byte(payload))
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			assert.Len(t, svc.store.Quotes(ctx), len(domain.SeedQuotes())+2*writers)
			require.NoError(t, svc.pusher.Wait(ctx))
			assert.EqualValues(t, writers, svc.remote.posts.Load(), "only adds are pushed")
			require.NoError(t, svc.Close())

			restarted, err := startService(driver, dir)
			require.NoError(t, err)
			t.Cleanup(func() { _ = restarted.Close() })

			assert.Len(t, restarted.store.Load(ctx), len(domain.SeedQuotes())+2*writers)
		})
	}
}

// TestSync_ReconcileIsIdempotent verifies the remote adapter, translation and
// add-only merge end to end.
func TestSync_ReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()

	svc, err := startService(storage.DriverSQLite, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.Len(t, svc.store.Load(ctx), 3)

	for range 3 {
		resp, err := svc.server.Client().Post(svc.URL()+"/api/v1/sync", "application/json", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	quotes := svc.store.Quotes(ctx)
	require.Len(t, quotes, 5)
	assert.Equal(t, domain.Quote{ID: "server-1", Text: "sunt aut facere repellat", Category: "Server"}, quotes[3])
	assert.Equal(t, domain.Quote{ID: "server-2", Text: "qui est esse", Category: "Server"}, quotes[4])
	assert.Equal(t, "_limit=3", svc.remote.lastQuery.Load())
	assert.EqualValues(t, 3, svc.remote.posts.Load(), "each sync pushes the full list once")
}
