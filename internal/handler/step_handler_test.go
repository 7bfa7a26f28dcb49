package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/recipebox/internal/service"
)

func TestAddStepsAcceptsSingleObject(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/steps", `{"description": "fry", "order": 2}`, user, idParam(recipe.ID))
	api.AddSteps(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Steps []map[string]any `json:"steps"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Steps) != 1 || resp.Steps[0]["order"] != float64(2) {
		t.Fatalf("unexpected steps: %v", resp.Steps)
	}
}

func TestAddStepsAcceptsArray(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	body := `[{"description": "fry", "order": 2}, {"description": "serve", "order": 3}]`
	c, w := newTestContext(http.MethodPost, "/api/recipes/1/steps", body, user, idParam(recipe.ID))
	api.AddSteps(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Steps []map[string]any `json:"steps"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(resp.Steps))
	}
}

func TestAddStepsDuplicateOrderFailsWholeBatch(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	// 种子菜谱已有 order=1 的步骤
	body := `[{"description": "rest", "order": 5}, {"description": "clash", "order": 1}]`
	c, w := newTestContext(http.MethodPost, "/api/recipes/1/steps", body, user, idParam(recipe.ID))
	api.AddSteps(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "there is already such a step in this recipe" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestAddStepsForbiddenForNonOwner(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	owner := seedTestUser(t, gdb, "alice")
	intruder := seedTestUser(t, gdb, "bob")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, owner.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/steps", `{"description": "fry", "order": 2}`, intruder, idParam(recipe.ID))
	api.AddSteps(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAddStepsEmptyArrayRejected(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	c, w := newTestContext(http.MethodPost, "/api/recipes/1/steps", `[]`, user, idParam(recipe.ID))
	api.AddSteps(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAddRecipeIngredientsSingleObject(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	user := seedTestUser(t, gdb, "alice")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, user.ID, fixture, "Pancakes")

	sugar, err := api.ingredients.Create(service.IngredientInput{
		Name:           "sugar",
		Quantity:       100,
		UnitID:         fixture.Unit.ID,
		AllowedUnitIDs: []uint{fixture.Unit.ID},
	})
	if err != nil {
		t.Fatalf("seed sugar: %v", err)
	}

	body := fmt.Sprintf(`{"ingredient": %d, "unit": "g", "quantity": 25}`, sugar.ID)
	c, w := newTestContext(http.MethodPost, "/api/recipes/1/recipeIngredients", body, user, idParam(recipe.ID))
	api.AddRecipeIngredients(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestUpdateStepForbiddenForNonOwner(t *testing.T) {
	api, gdb, cleanup := setupAPITest(t)
	defer cleanup()

	owner := seedTestUser(t, gdb, "alice")
	intruder := seedTestUser(t, gdb, "bob")
	fixture := seedRecipeFixture(t, gdb)
	recipe := seedTestRecipe(t, api, owner.ID, fixture, "Pancakes")

	stepID := recipe.Steps[0].ID
	c, w := newTestContext(http.MethodPut, "/api/steps/1", `{"description": "hijacked", "order": 1}`, intruder, idParam(stepID))
	api.UpdateStep(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
