package handlers

import (
	"net/http"
	"time"

	"bounty-market/internal/auth"
	"bounty-market/internal/response"
	"bounty-market/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles what the router needs
type Services struct {
	Auth      *services.AuthService
	Workspace *services.WorkspaceService
	Bounty    *services.BountyService
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173", // Vite dev server
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// NewRouter wires every route onto a gin engine
func NewRouter(svc Services, frontendURL string) *gin.Engine {
	router := gin.New()
	router.Use(response.RequestID(), gin.Logger(), response.Recovery())

	allowedOrigins := defaultOrigins
	if frontendURL != "" {
		allowedOrigins = append(append([]string{}, defaultOrigins...), frontendURL)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.NoRoute(response.NotFound())

	authHandler := NewAuthHandler(svc.Auth)
	workspaceHandler := NewWorkspaceHandler(svc.Workspace)
	bountyHandler := NewBountyHandler(svc.Bounty)

	router.GET("/health", func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/challenge", authHandler.Challenge)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", auth.AuthMiddleware(), authHandler.GetMe)
	}

	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/workspaces", workspaceHandler.CreateWorkspace)

		ws := api.Group("/workspaces/:id")
		ws.GET("", workspaceHandler.GetWorkspace)
		ws.POST("/members", workspaceHandler.AddMember)
		ws.GET("/budget", workspaceHandler.GetBudget)
		ws.POST("/budget/deposit", workspaceHandler.Deposit)

		ws.POST("/bounties", bountyHandler.CreateBounty)
		ws.GET("/bounties", bountyHandler.ListBounties)

		b := ws.Group("/bounties/:bountyId")
		b.GET("", bountyHandler.GetBounty)
		b.DELETE("", bountyHandler.DeleteBounty)
		b.GET("/activity", bountyHandler.GetActivity)
		b.PATCH("/publish", bountyHandler.PublishBounty)
		b.PATCH("/claim", bountyHandler.ClaimBounty)
		b.PATCH("/unclaim", bountyHandler.UnclaimBounty)
		b.POST("/proofs", bountyHandler.SubmitProof)
		b.PATCH("/proofs/:proofId/review", bountyHandler.ReviewProof)
		b.PATCH("/complete", bountyHandler.CompleteBounty)
		b.PATCH("/cancel", bountyHandler.CancelBounty)
		b.PATCH("/mark-paid", bountyHandler.MarkPaid)
	}

	return router
}
