package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRateRecipeCreateThenUpdate(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/rate", `{"stars": 3}`, user, idParam(recipe.ID))
	api.RateRecipe(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("first rate status = %d, body = %s", w.Code, w.Body.String())
	}

	c, w = newTestContext(http.MethodPost, "/api/recipes/1/rate", `{"stars": 5}`, user, idParam(recipe.ID))
	api.RateRecipe(c)
	if w.Code != http.StatusOK {
		t.Fatalf("second rate status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["stars"] != float64(5) {
		t.Fatalf("stars = %v", resp["stars"])
	}
}

func TestRateRecipeRequiresStars(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/rate", `{}`, user, idParam(recipe.ID))
	api.RateRecipe(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "you need to provide stars" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestRateRecipeOutOfRange(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/rate", `{"stars": 9}`, user, idParam(recipe.ID))
	api.RateRecipe(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestFavouriteRecipeConflict(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/favourite", "", user, idParam(recipe.ID))
	api.FavouriteRecipe(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("first favourite status = %d, body = %s", w.Code, w.Body.String())
	}

	c, w = newTestContext(http.MethodPost, "/api/recipes/1/favourite", "", user, idParam(recipe.ID))
	api.FavouriteRecipe(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second favourite status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "you have already added this recipe to favourites" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestCommentRecipeRendersMarkdown(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/comments", `{"content": "so **good**"}`, user, idParam(recipe.ID))
	api.CommentRecipe(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	html, _ := resp["contentHtml"].(string)
	if html == "" || html == "so **good**" {
		t.Fatalf("contentHtml not rendered: %q", html)
	}
}
