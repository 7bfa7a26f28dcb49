package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/recipebox/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestLogger(), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("recipebox_session", store))
	r.Use(api.CurrentUser())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/login", api.Login)
		apiGroup.POST("/auth/logout", api.Logout)
		apiGroup.POST("/users", api.Register)

		// 需要认证的路由
		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.PUT("/users/:id", api.UpdateUser)

			auth.GET("/units", api.GetUnits)
			auth.GET("/units/:id", api.GetUnit)
			auth.GET("/categories", api.GetCategories)
			auth.GET("/categories/:id", api.GetCategory)
			auth.GET("/ingredients", api.GetIngredients)
			auth.GET("/ingredients/:id", api.GetIngredient)
			auth.POST("/ingredients", api.CreateIngredient)

			auth.GET("/recipes", api.GetRecipes)
			auth.GET("/recipes/:id", api.GetRecipe)
			auth.POST("/recipes", api.CreateRecipe)
			auth.PUT("/recipes/:id", api.UpdateRecipe)
			auth.PATCH("/recipes/:id", api.UpdateRecipe)
			auth.DELETE("/recipes/:id", api.DeleteRecipe)

			auth.POST("/recipes/:id/rate", api.RateRecipe)
			auth.POST("/recipes/:id/favourite", api.FavouriteRecipe)
			auth.POST("/recipes/:id/comments", api.CommentRecipe)
			auth.POST("/recipes/:id/steps", api.AddSteps)
			auth.POST("/recipes/:id/recipeIngredients", api.AddRecipeIngredients)
			auth.GET("/favourites", api.GetMyFavourites)

			auth.PUT("/steps/:id", api.UpdateStep)
			auth.DELETE("/steps/:id", api.DeleteStep)
			auth.PUT("/recipeIngredients/:id", api.UpdateRecipeIngredient)
			auth.DELETE("/recipeIngredients/:id", api.DeleteRecipeIngredient)

			auth.POST("/uploads", api.UploadImage)

			// 参考数据的写入仅限后台人员
			staff := auth.Group("")
			staff.Use(handler.StaffRequired())
			{
				staff.POST("/units", api.CreateUnit)
				staff.PUT("/units/:id", api.UpdateUnit)
				staff.DELETE("/units/:id", api.DeleteUnit)

				staff.POST("/categories", api.CreateCategory)
				staff.PUT("/categories/:id", api.UpdateCategory)
				staff.DELETE("/categories/:id", api.DeleteCategory)

				staff.PUT("/ingredients/:id", api.UpdateIngredient)
				staff.DELETE("/ingredients/:id", api.DeleteIngredient)
			}
		}
	}

	return r
}
