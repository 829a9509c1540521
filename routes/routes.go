package routes

import (
	"homebite/handlers"
	"homebite/middleware"
	"homebite/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	r.Use(cors.Default())

	// ── Public routes ──────────────────────────────────────────────
	r.POST("/auth/register", handlers.Register)
	r.POST("/auth/login", handlers.Login)

	r.GET("/meals", handlers.ListMeals)
	r.GET("/meals/:id", handlers.GetMeal)
	r.GET("/reviews/:mealId", handlers.ListReviews)

	// ── Authenticated routes (any role) ────────────────────────────
	auth := r.Group("/")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.GET("/users/:email", handlers.GetUserByEmail)

		auth.GET("/orders/:id", handlers.GetOrder)
		auth.GET("/my-orders/:email", handlers.ListMyOrders)
		auth.GET("/payments/:email", handlers.ListPayments)
		auth.PATCH("/payment-success", handlers.PaymentSuccess)

		auth.POST("/role-requests", handlers.CreateRoleRequest)

		auth.GET("/favorites/:email", handlers.ListFavorites)
		auth.POST("/favorites", handlers.AddFavorite)
		auth.DELETE("/favorites/:id", handlers.RemoveFavorite)

		auth.POST("/reviews", handlers.CreateReview)
		auth.PUT("/reviews/:id", handlers.UpdateReview)
		auth.DELETE("/reviews/:id", handlers.DeleteReview)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.CreateOrder)
		customer.POST("/create-checkout-session", handlers.CreateCheckoutSession)
	}

	// ── Order transitions (customer cancels, chef accepts/delivers) ─
	transitions := r.Group("/")
	transitions.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer, models.RoleChef))
	{
		transitions.PATCH("/orders/status/:id", handlers.SetOrderStatus)
	}

	// ── Chef routes ────────────────────────────────────────────────
	chef := r.Group("/")
	chef.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleChef, models.RoleAdmin))
	{
		chef.GET("/chef-orders/:chefId", handlers.ListChefOrders)
		chef.POST("/meals", handlers.CreateMeal)
		chef.PUT("/meals/:id", handlers.UpdateMeal)
		chef.DELETE("/meals/:id", handlers.DeleteMeal)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", handlers.AdminListOrders)
		admin.GET("/users", handlers.ListUsers)
		admin.PATCH("/users/fraud/:id", handlers.MarkUserFraud)

		admin.GET("/role-requests", handlers.ListRoleRequests)
		admin.GET("/role-requests/:id", handlers.GetRoleRequest)
		admin.PATCH("/role-requests/approve/:id", handlers.ApproveRoleRequest)
		admin.PATCH("/role-requests/reject/:id", handlers.RejectRoleRequest)
	}
}
