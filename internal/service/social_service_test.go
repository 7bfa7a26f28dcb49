package service

import (
	"errors"
	"testing"

	"github.com/recipebox/internal/db"
	"gorm.io/gorm"
)

func seedRecipe(t *testing.T, gdb *gorm.DB, userID uint, title string) *db.Recipe {
	t.Helper()

	gram := db.Unit{Full: "gram-" + title, Short: "g-" + title}
	if err := gdb.Create(&gram).Error; err != nil {
		t.Fatalf("seed unit: %v", err)
	}
	ingredient := db.Ingredient{Name: "flour-" + title, Quantity: 100, UnitID: gram.ID, IsActive: true}
	if err := gdb.Create(&ingredient).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	if err := gdb.Model(&ingredient).Association("AllowedUnits").Append(&gram); err != nil {
		t.Fatalf("associate unit: %v", err)
	}
	category := db.Category{Name: "cat-" + title}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	svc := NewRecipeService(gdb)
	recipe, err := svc.Create(userID, RecipeInput{
		Title:               title,
		PreparationTime:     10,
		PreparationTimeUnit: "m",
		Level:               db.LevelCompetent,
		CategoryIDs:         []uint{category.ID},
		Ingredients:         []RecipeIngredientInput{{IngredientID: ingredient.ID, Unit: gram.Short, Quantity: 100}},
		Steps:               []StepInput{{Description: "mix", Order: 1}},
	})
	if err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

func TestRateCreatesThenUpdatesInPlace(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	recipe := seedRecipe(t, gdb, user.ID, "Soup")

	svc := NewSocialService(gdb)
	rating, created, err := svc.Rate(user.ID, recipe.ID, 3)
	if err != nil {
		t.Fatalf("first rate: %v", err)
	}
	if !created || rating.Stars != 3 {
		t.Fatalf("expected new rating with 3 stars, created=%v stars=%d", created, rating.Stars)
	}

	rating, created, err = svc.Rate(user.ID, recipe.ID, 5)
	if err != nil {
		t.Fatalf("second rate: %v", err)
	}
	if created {
		t.Fatal("second rate must update, not create")
	}
	if rating.Stars != 5 {
		t.Fatalf("expected stars updated to 5, got %d", rating.Stars)
	}

	var count int64
	gdb.Model(&db.Rating{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one rating row, got %d", count)
	}

	summary, err := svc.RatingSummary([]uint{recipe.ID})
	if err != nil {
		t.Fatalf("rating summary: %v", err)
	}
	agg := summary[recipe.ID]
	if agg.Count != 1 || agg.Avg != 5 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
}

func TestRateRejectsOutOfRangeStars(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	recipe := seedRecipe(t, gdb, user.ID, "Soup")

	svc := NewSocialService(gdb)
	for _, stars := range []int{0, 6, -1} {
		if _, _, err := svc.Rate(user.ID, recipe.ID, stars); !errors.Is(err, ErrStarsRange) {
			t.Fatalf("stars=%d: expected ErrStarsRange, got %v", stars, err)
		}
	}
}

func TestRateUnknownRecipe(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	svc := NewSocialService(gdb)
	if _, _, err := svc.Rate(user.ID, 999, 4); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestFavoriteConflictLeavesSingleRow(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	recipe := seedRecipe(t, gdb, user.ID, "Soup")

	svc := NewSocialService(gdb)
	if _, err := svc.Favorite(user.ID, recipe.ID); err != nil {
		t.Fatalf("first favorite: %v", err)
	}
	if _, err := svc.Favorite(user.ID, recipe.ID); !errors.Is(err, ErrAlreadyFavorited) {
		t.Fatalf("expected ErrAlreadyFavorited, got %v", err)
	}

	var count int64
	gdb.Model(&db.Favorite{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one favorite row, got %d", count)
	}

	favorites, err := svc.ListFavorites(user.ID)
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if len(favorites) != 1 || favorites[0].RecipeID != recipe.ID {
		t.Fatalf("unexpected favorites: %+v", favorites)
	}
}

func TestAnnotationsCoverFavouriteAndStars(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	rated := seedRecipe(t, gdb, user.ID, "Rated")
	favourited := seedRecipe(t, gdb, user.ID, "Favourited")
	untouched := seedRecipe(t, gdb, user.ID, "Untouched")

	svc := NewSocialService(gdb)
	if _, _, err := svc.Rate(user.ID, rated.ID, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := svc.Favorite(user.ID, favourited.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	annotations, err := svc.Annotations(user.ID, []uint{rated.ID, favourited.ID, untouched.ID})
	if err != nil {
		t.Fatalf("annotations: %v", err)
	}

	if a := annotations[rated.ID]; a.Favourite || a.Stars == nil || *a.Stars != 4 {
		t.Fatalf("unexpected annotation for rated recipe: %+v", a)
	}
	if a := annotations[favourited.ID]; !a.Favourite || a.Stars != nil {
		t.Fatalf("unexpected annotation for favourited recipe: %+v", a)
	}
	if a, ok := annotations[untouched.ID]; ok && (a.Favourite || a.Stars != nil) {
		t.Fatalf("untouched recipe must have empty annotation: %+v", a)
	}
}

func TestRatingSummarySkipsUnratedRecipes(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	other := db.User{Username: "bob", Email: "bob@example.com", Password: "hash"}
	if err := gdb.Create(&other).Error; err != nil {
		t.Fatalf("seed second user: %v", err)
	}
	rated := seedRecipe(t, gdb, user.ID, "Rated")
	fresh := seedRecipe(t, gdb, user.ID, "Fresh")

	svc := NewSocialService(gdb)
	if _, _, err := svc.Rate(user.ID, rated.ID, 2); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, _, err := svc.Rate(other.ID, rated.ID, 4); err != nil {
		t.Fatalf("rate as second user: %v", err)
	}

	summary, err := svc.RatingSummary([]uint{rated.ID, fresh.ID})
	if err != nil {
		t.Fatalf("rating summary: %v", err)
	}
	agg := summary[rated.ID]
	if agg.Count != 2 || agg.Avg != 3 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
	if _, ok := summary[fresh.ID]; ok {
		t.Fatal("fresh recipe must be absent from summary")
	}
}

func TestCommentRequiresContent(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedUser(t, gdb)
	recipe := seedRecipe(t, gdb, user.ID, "Soup")

	svc := NewSocialService(gdb)
	if _, err := svc.Comment(user.ID, recipe.ID, "   "); !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("expected ErrCommentRequired, got %v", err)
	}

	comment, err := svc.Comment(user.ID, recipe.ID, "  lovely!  ")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if comment.Content != "lovely!" || !comment.IsActive {
		t.Fatalf("unexpected comment: %+v", comment)
	}
}
