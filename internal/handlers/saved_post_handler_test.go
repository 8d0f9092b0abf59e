package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSavedTestContext(t *testing.T, method, paramValue string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(paramValue)
	if userID != 0 {
		c.Set("authUser", models.AuthUser{ID: userID})
	}
	return c, rec
}

func TestSavePostCreatesRecord(t *testing.T) {
	posts := newFakePostRepository()
	saved := newFakeSavedPostRepository()
	post := posts.seed(2, "worth keeping")
	h := NewSavedPostHandler(saved, posts)

	c, rec := newSavedTestContext(t, http.MethodPost, post.ID.Hex(), 1)
	require.NoError(t, h.SavePost(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	isSaved, _ := saved.IsPostSaved(1, post.ID.Hex())
	assert.True(t, isSaved)
}

func TestSavePostTwiceConflicts(t *testing.T) {
	posts := newFakePostRepository()
	saved := newFakeSavedPostRepository()
	post := posts.seed(2, "worth keeping")
	h := NewSavedPostHandler(saved, posts)

	c, _ := newSavedTestContext(t, http.MethodPost, post.ID.Hex(), 1)
	require.NoError(t, h.SavePost(c))

	c, _ = newSavedTestContext(t, http.MethodPost, post.ID.Hex(), 1)
	err := h.SavePost(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestSaveUnsaveRoundTrip(t *testing.T) {
	posts := newFakePostRepository()
	saved := newFakeSavedPostRepository()
	post := posts.seed(2, "worth keeping")
	h := NewSavedPostHandler(saved, posts)

	c, rec := newSavedTestContext(t, http.MethodPost, post.ID.Hex(), 1)
	require.NoError(t, h.SavePost(c))

	var created models.SavedPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	c, rec = newSavedTestContext(t, http.MethodDelete, fmt.Sprintf("%d", created.ID), 1)
	require.NoError(t, h.DeleteSavedPost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	isSaved, _ := saved.IsPostSaved(1, post.ID.Hex())
	assert.False(t, isSaved, "round trip must leave no saved record for the pair")
}

func TestDeleteSavedPostOfAnotherUserIsForbidden(t *testing.T) {
	posts := newFakePostRepository()
	saved := newFakeSavedPostRepository()
	post := posts.seed(2, "worth keeping")
	h := NewSavedPostHandler(saved, posts)

	c, rec := newSavedTestContext(t, http.MethodPost, post.ID.Hex(), 1)
	require.NoError(t, h.SavePost(c))

	var created models.SavedPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	c, _ = newSavedTestContext(t, http.MethodDelete, fmt.Sprintf("%d", created.ID), 9)
	err := h.DeleteSavedPost(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestGetSavedPostsListsUserBookmarks(t *testing.T) {
	posts := newFakePostRepository()
	saved := newFakeSavedPostRepository()
	post := posts.seed(2, "worth keeping")
	other := posts.seed(3, "someone else's")
	h := NewSavedPostHandler(saved, posts)

	c, _ := newSavedTestContext(t, http.MethodPost, post.ID.Hex(), 1)
	require.NoError(t, h.SavePost(c))
	c, _ = newSavedTestContext(t, http.MethodPost, other.ID.Hex(), 5)
	require.NoError(t, h.SavePost(c))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("authUser", models.AuthUser{ID: 1})

	require.NoError(t, h.GetSavedPosts(c))

	var body struct {
		Saved []models.SavedPost `json:"saved"`
		Posts []models.Post      `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Saved, 1)
	assert.Equal(t, post.ID.Hex(), body.Saved[0].PostID)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "worth keeping", body.Posts[0].Caption)
}
