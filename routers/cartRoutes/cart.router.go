package cartRoutes

import (
	cartControllers "elearn/controllers/cart"
	"elearn/middleware"
	cartValidators "elearn/validators/cart"

	"github.com/gofiber/fiber/v2"
)

func SetupCartRoutes(app *fiber.App) {
	cartGroup := app.Group("/cart")

	cartGroup.Get("/", middleware.JWTMiddleware, cartControllers.GetCart)
	cartGroup.Post("/add/:courseId", middleware.JWTMiddleware, cartValidators.CourseID(), cartControllers.AddToCart)
	cartGroup.Delete("/remove/:courseId", middleware.JWTMiddleware, cartValidators.CourseID(), cartControllers.RemoveFromCart)
	cartGroup.Delete("/clear", middleware.JWTMiddleware, cartControllers.ClearCart)
	cartGroup.Post("/checkout", middleware.JWTMiddleware, cartControllers.Checkout)
}
