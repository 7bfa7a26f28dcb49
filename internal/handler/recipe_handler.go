package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
	"github.com/recipebox/internal/service"
)

type stepRequest struct {
	Description string `json:"description"`
	Order       int    `json:"order"`
	ImageURL    string `json:"imageUrl"`
}

type recipeIngredientRequest struct {
	Ingredient uint    `json:"ingredient"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
}

type recipeCreateRequest struct {
	Title               string                    `json:"title" binding:"required"`
	Description         string                    `json:"description"`
	ImageURL            string                    `json:"imageUrl"`
	PreparationTime     float64                   `json:"preparationTime"`
	PreparationTimeUnit string                    `json:"preparationTimeUnit" binding:"required"`
	Level               string                    `json:"level"`
	Categories          []uint                    `json:"categories"`
	Ingredients         []recipeIngredientRequest `json:"ingredients"`
	Steps               []stepRequest             `json:"steps"`
}

type recipeUpdateRequest struct {
	Title               *string                   `json:"title"`
	Description         *string                   `json:"description"`
	ImageURL            *string                   `json:"imageUrl"`
	PreparationTime     *float64                  `json:"preparationTime"`
	PreparationTimeUnit *string                   `json:"preparationTimeUnit"`
	Level               *string                   `json:"level"`
	Categories          []uint                    `json:"categories"`
	Ingredients         []recipeIngredientRequest `json:"ingredients"`
	Steps               []stepRequest             `json:"steps"`
}

func stepView(step db.Step) gin.H {
	return gin.H{
		"id":          step.ID,
		"recipe":      step.RecipeID,
		"description": step.Description,
		"order":       step.SortOrder,
		"imageUrl":    step.ImageURL,
	}
}

func recipeIngredientView(item db.RecipeIngredient) gin.H {
	return gin.H{
		"id":         item.ID,
		"recipe":     item.RecipeID,
		"ingredient": item.IngredientID,
		"unit":       item.Unit,
		"quantity":   item.Quantity,
	}
}

func commentView(comment db.Comment) gin.H {
	return gin.H{
		"id":           comment.ID,
		"user":         comment.UserID,
		"recipe":       comment.RecipeID,
		"content":      comment.Content,
		"contentHtml":  renderMarkdown(comment.Content),
		"dateAdded":    comment.CreatedAt.Format("2006-01-02"),
		"dateModified": comment.UpdatedAt.Format("2006-01-02"),
	}
}

// recipeView 组装菜谱的完整展示结构。agg 为评分聚合；annotation
// 非空时附加当前用户的收藏/评分标注，匿名请求省略这两个字段。
func recipeView(recipe *db.Recipe, agg service.RatingAgg, annotation *service.Annotation) gin.H {
	categories := make([]gin.H, 0, len(recipe.Categories))
	for _, category := range recipe.Categories {
		categories = append(categories, gin.H{"id": category.ID, "name": category.Name})
	}

	steps := make([]gin.H, 0, len(recipe.Steps))
	for _, step := range recipe.Steps {
		steps = append(steps, stepView(step))
	}

	ingredients := make([]gin.H, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		ingredients = append(ingredients, recipeIngredientView(item))
	}

	comments := make([]gin.H, 0, len(recipe.Comments))
	for _, comment := range recipe.Comments {
		comments = append(comments, commentView(comment))
	}

	view := gin.H{
		"id":                  recipe.ID,
		"user":                recipe.UserID,
		"title":               recipe.Title,
		"description":         recipe.Description,
		"descriptionHtml":     renderMarkdown(recipe.Description),
		"no_of_rating":        agg.Count,
		"avg_rating":          agg.Avg,
		"imageUrl":            recipe.ImageURL,
		"preparationTime":     recipe.PreparationTime,
		"preparationTimeUnit": db.PrepTimeUnitName(recipe.PreparationTimeUnit),
		"level":               db.LevelName(recipe.Level),
		"dateAdded":           recipe.DateAdded.Format("2006-01-02"),
		"categories":          categories,
		"steps":               steps,
		"ingredients":         ingredients,
		"comments":            comments,
	}

	if annotation != nil {
		view["user_favourite"] = annotation.Favourite
		if annotation.Stars != nil {
			view["user_rating"] = *annotation.Stars
		}
	}

	return view
}

// GetRecipes 菜谱列表。登录用户附带本人收藏与评分标注；
// 标注与评分聚合各自只发起常数次查询。
func (a *API) GetRecipes(c *gin.Context) {
	recipes, err := a.recipes.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list recipes")
		return
	}

	ids := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}

	aggregates, err := a.social.RatingSummary(ids)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to aggregate ratings")
		return
	}

	var annotations map[uint]service.Annotation
	if user := currentUser(c); user != nil {
		annotations, err = a.social.Annotations(user.ID, ids)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load annotations")
			return
		}
	}

	response := make([]gin.H, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		var annotation *service.Annotation
		if annotations != nil {
			value := annotations[recipe.ID]
			annotation = &value
		}
		response = append(response, recipeView(recipe, aggregates[recipe.ID], annotation))
	}

	c.JSON(http.StatusOK, gin.H{"recipes": response})
}

// GetRecipe 菜谱详情
func (a *API) GetRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := a.recipes.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	aggregates, err := a.social.RatingSummary([]uint{recipe.ID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to aggregate ratings")
		return
	}

	var annotation *service.Annotation
	if user := currentUser(c); user != nil {
		annotations, err := a.social.Annotations(user.ID, []uint{recipe.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load annotations")
			return
		}
		value := annotations[recipe.ID]
		annotation = &value
	}

	c.JSON(http.StatusOK, recipeView(recipe, aggregates[recipe.ID], annotation))
}

// CreateRecipe 创建菜谱聚合，见 RecipeService.Create 的事务语义
func (a *API) CreateRecipe(c *gin.Context) {
	var req recipeCreateRequest
	if !bindJSON(c, &req, "title and preparationTimeUnit are required") {
		return
	}

	level := db.LevelCompetent
	if req.Level != "" {
		parsed, ok := db.ParseLevel(req.Level)
		if !ok {
			respondError(c, http.StatusBadRequest, service.ErrInvalidLevel.Error())
			return
		}
		level = parsed
	}

	prepUnit, ok := db.ParsePrepTimeUnit(req.PreparationTimeUnit)
	if !ok {
		respondError(c, http.StatusBadRequest, service.ErrInvalidPrepTimeUnit.Error())
		return
	}

	user := currentUser(c)
	recipe, err := a.recipes.Create(user.ID, service.RecipeInput{
		Title:               req.Title,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		PreparationTime:     req.PreparationTime,
		PreparationTimeUnit: prepUnit,
		Level:               level,
		CategoryIDs:         req.Categories,
		Ingredients:         toIngredientInputs(req.Ingredients),
		Steps:               toStepInputs(req.Steps),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipeView(recipe, service.RatingAgg{}, nil))
}

// UpdateRecipe 追加式更新，仅菜谱归属人可操作
func (a *API) UpdateRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := a.recipes.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !service.CanModify(currentUser(c), recipe.UserID) {
		respondError(c, http.StatusForbidden, "only the recipe owner can modify it")
		return
	}

	var req recipeUpdateRequest
	if !bindJSON(c, &req, "invalid recipe payload") {
		return
	}

	update := service.RecipeUpdate{
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		PreparationTime: req.PreparationTime,
		CategoryIDs:     req.Categories,
		Ingredients:     toIngredientInputs(req.Ingredients),
		Steps:           toStepInputs(req.Steps),
	}

	if req.Level != nil {
		parsed, ok := db.ParseLevel(*req.Level)
		if !ok {
			respondError(c, http.StatusBadRequest, service.ErrInvalidLevel.Error())
			return
		}
		update.Level = &parsed
	}
	if req.PreparationTimeUnit != nil {
		parsed, ok := db.ParsePrepTimeUnit(*req.PreparationTimeUnit)
		if !ok {
			respondError(c, http.StatusBadRequest, service.ErrInvalidPrepTimeUnit.Error())
			return
		}
		update.PreparationTimeUnit = &parsed
	}

	updated, err := a.recipes.Update(id, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	aggregates, err := a.social.RatingSummary([]uint{updated.ID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to aggregate ratings")
		return
	}
	c.JSON(http.StatusOK, recipeView(updated, aggregates[updated.ID], nil))
}

// DeleteRecipe 删除菜谱，仅归属人可操作
func (a *API) DeleteRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := a.recipes.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !service.CanModify(currentUser(c), recipe.UserID) {
		respondError(c, http.StatusForbidden, "only the recipe owner can delete it")
		return
	}

	if err := a.recipes.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

func toStepInputs(items []stepRequest) []service.StepInput {
	inputs := make([]service.StepInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.StepInput{
			Description: item.Description,
			Order:       item.Order,
			ImageURL:    item.ImageURL,
		})
	}
	return inputs
}

func toIngredientInputs(items []recipeIngredientRequest) []service.RecipeIngredientInput {
	inputs := make([]service.RecipeIngredientInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.RecipeIngredientInput{
			IngredientID: item.Ingredient,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
		})
	}
	return inputs
}
