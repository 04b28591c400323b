package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public auth endpoints and the authenticated
// dataset endpoints on r.
func RegisterRoutes(r gin.IRouter, auth *AuthHandler, dataset *DatasetHandler, requireAuth gin.HandlerFunc) {
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/v1/auth/refresh", auth.RefreshToken)

	v1 := r.Group("/v1", requireAuth)
	{
		v1.POST("/dataset/regenerate", dataset.Regenerate)

		v1.GET("/profiles/:profileId", dataset.GetProfile)
		v1.GET("/profiles/:profileId/picture", dataset.GetProfilePicture)

		v1.GET("/accounts", dataset.ListAccounts)
		v1.GET("/accounts/:accountId", dataset.GetAccount)
		v1.GET("/accounts/:accountId/transactions", dataset.ListAccountTransactions)

		v1.GET("/transactions", dataset.ListTransactions)
		v1.GET("/transactions/:transactionId", dataset.GetTransaction)
	}
}
