package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/handlers"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Listing *handlers.ListingHandler
	Pricing *handlers.PricingHandler
	Order   *handlers.OrderHandler
	Pincode *handlers.PincodeHandler
	Payment *handlers.PaymentHandler
}

// SetupRoutes configures all API routes.
func SetupRoutes(app *fiber.App, h *Handlers) {
	// OTP authentication
	app.Post("/login", h.Auth.RequestLoginOTP)
	app.Post("/register", h.Auth.RequestRegisterOTP)
	app.Post("/verify_login_otp", h.Auth.VerifyLoginOTP)
	app.Post("/verify_register_otp", h.Auth.VerifyRegisterOTP)
	app.Post("/resend_otp", h.Auth.ResendOTP)

	// Users
	app.Get("/users/:customer_id", h.User.GetUser)
	app.Put("/users/:customer_id", h.User.UpdateUser)
	app.Get("/users/:customer_id/listings", h.User.GetUserListings)
	app.Get("/users/:customer_id/orders", h.User.GetUserOrders)

	// Listings
	app.Post("/listings", h.Listing.CreateListing)
	app.Get("/listings", h.Listing.SearchListings)
	app.Get("/listings/:listing_id", h.Listing.GetListing)
	app.Put("/listings/:listing_id", h.Listing.UpdateListing)

	// Distance and cost calculation
	app.Get("/calculate_distance", h.Pricing.CalculateDistance)
	app.Post("/calculate_logistics_cost", h.Pricing.CalculateLogisticsCost)
	app.Post("/calculate_rent", h.Pricing.CalculateRent)

	// Orders
	app.Post("/orders", h.Order.CreateOrder)
	app.Get("/orders/:order_id", h.Order.GetOrder)
	app.Put("/orders/:order_id", h.Order.UpdateOrder)
	app.Post("/update_order_status", h.Order.UpdateOrderStatus)

	// Delivery slots
	app.Post("/schedule_delivery_slot", h.Order.ScheduleDeliverySlot)
	app.Get("/delivery_slots/:order_id", h.Order.GetDeliverySlot)
	app.Post("/update_delivery_slot", h.Order.UpdateDeliverySlot)

	// Pincode reference data
	app.Post("/import_pincode_data", h.Pincode.ImportPincodeData)
	app.Get("/pincodes", h.Pincode.SearchPincodes)

	// Payment service proxy
	app.Post("/payment_accounts", h.Payment.AddPaymentAccount)
	app.Get("/users/:customer_id/payment_accounts", h.Payment.GetPaymentAccounts)
	app.Delete("/payment_accounts/:account_id", h.Payment.DeletePaymentAccount)
	app.Post("/verify_account", h.Payment.VerifyAccount)
	app.Get("/verification_status/:verification_id", h.Payment.VerificationStatus)
	app.Post("/create_payout", h.Payment.CreatePayout)
	app.Get("/payout_status/:payout_id", h.Payment.PayoutStatus)
}
