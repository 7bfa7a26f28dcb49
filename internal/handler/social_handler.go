package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/db"
)

type rateRequest struct {
	Stars *int `json:"stars"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func ratingView(rating *db.Rating) gin.H {
	return gin.H{
		"id":     rating.ID,
		"user":   rating.UserID,
		"recipe": rating.RecipeID,
		"stars":  rating.Stars,
	}
}

// RateRecipe 评分，按 (user, recipe) upsert：更新回 200，新建回 201
func (a *API) RateRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req rateRequest
	if !bindJSON(c, &req, "you need to provide stars") {
		return
	}
	if req.Stars == nil {
		respondError(c, http.StatusBadRequest, "you need to provide stars")
		return
	}

	user := currentUser(c)
	rating, created, err := a.social.Rate(user.ID, id, *req.Stars)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, ratingView(rating))
}

// FavouriteRecipe 收藏，重复收藏返回冲突
func (a *API) FavouriteRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(c)
	favorite, err := a.social.Favorite(user.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     favorite.ID,
		"user":   favorite.UserID,
		"recipe": favorite.RecipeID,
	})
}

// GetMyFavourites 当前用户的收藏列表
func (a *API) GetMyFavourites(c *gin.Context) {
	user := currentUser(c)
	favorites, err := a.social.ListFavorites(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list favourites")
		return
	}

	response := make([]gin.H, 0, len(favorites))
	for _, favorite := range favorites {
		response = append(response, gin.H{
			"id":     favorite.ID,
			"user":   favorite.UserID,
			"recipe": favorite.RecipeID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"favourites": response})
}

// CommentRecipe 在菜谱下发表评论
func (a *API) CommentRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req commentRequest
	if !bindJSON(c, &req, "comment content is required") {
		return
	}

	user := currentUser(c)
	comment, err := a.social.Comment(user.ID, id, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, commentView(*comment))
}
