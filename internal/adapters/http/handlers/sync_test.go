package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/mocks"
)

func setupSyncHandler(t *testing.T) (*gin.Engine, *app.QuoteStore, *mocks.MockRemoteQuotes) {
	t.Helper()

	store := newTestStore(t)
	remote := mocks.NewMockRemoteQuotes(t)
	syncer := app.NewSyncer(app.SyncerConfig{
		Store:  store,
		Source: remote,
		Sink:   remote,
		Logger: discardLogger(),
	})

	router := gin.New()
	NewSyncHandler(syncer).RegisterRoutes(router.Group("/api/v1"))

	return router, store, remote
}

func TestSyncHandler_Sync(t *testing.T) {
	router, store, remote := setupSyncHandler(t)

	remote.EXPECT().FetchQuotes(mock.Anything).Return([]domain.Quote{
		{ID: "server-1", Text: "sunt aut facere", Category: "Server"},
		{ID: "server-2", Text: "qui est esse", Category: "Server"},
	}, nil)
	remote.EXPECT().PushQuotes(mock.Anything, mock.Anything).Return(nil)

	w := serve(router, http.MethodPost, "/api/v1/sync", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SyncResponse{Pulled: 2, Added: 2, Pushed: 3}, decode[dto.SyncResponse](t, w))
	assert.Contains(t, store.ListCategories(context.Background()), "Server")
}

func TestSyncHandler_Sync_PullFailure(t *testing.T) {
	router, store, remote := setupSyncHandler(t)

	remote.EXPECT().FetchQuotes(mock.Anything).
		Return(nil, domain.NewNetworkError("remote", "fetch quotes", "status 503: Service Unavailable"))
	remote.EXPECT().PushQuotes(mock.Anything, mock.Anything).Return(nil)

	w := serve(router, http.MethodPost, "/api/v1/sync", nil, "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrorCodeUnavailable, decode[dto.ErrorResponse](t, w).Error.Code)
	assert.Len(t, store.Quotes(context.Background()), len(domain.SeedQuotes()))
}

func TestSyncHandler_Sync_PushFailureReported(t *testing.T) {
	router, _, remote := setupSyncHandler(t)

	remote.EXPECT().FetchQuotes(mock.Anything).Return([]domain.Quote{}, nil)
	remote.EXPECT().PushQuotes(mock.Anything, mock.Anything).
		Return(domain.NewNetworkError("remote", "push quotes", "timed out"))

	w := serve(router, http.MethodPost, "/api/v1/sync", nil, "")

	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.SyncResponse](t, w)
	assert.Zero(t, resp.Pushed)
	assert.Contains(t, resp.PushError, "timed out")
}
