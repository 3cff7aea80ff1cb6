package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the health probe and the expense workflow API.
// The caller supplies the middleware chain for the authenticated group so
// tests can mount the handlers without redis.
func RegisterRoutes(e *echo.Echo, h *Handler, eh *ExpenseHandler, authed ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("/api/expenses", authed...)

	g.POST("", eh.Create)
	g.GET("", eh.List)
	g.GET("/user/pending-completion", eh.PendingCompletion)
	g.GET("/user/count", eh.CountByStatus)
	g.GET("/:id", eh.Get)
	g.GET("/:id/pdf", eh.VoucherPDF)
	g.POST("/:id/items", eh.AddItem)
	g.POST("/:id/submit", eh.Submit)
	g.POST("/:id/approve/accountant", eh.ApproveByAccountant)
	g.POST("/:id/approve/manager", eh.ApproveByManager)
	g.POST("/:id/process", eh.Process)
	g.POST("/:id/complete", eh.Complete)
	g.POST("/:id/reject", eh.Reject)
	g.POST("/:id/receipts", eh.UploadReceipt)
}
