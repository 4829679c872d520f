package headstart

import (
	"fmt"

	"github.com/esitarz/headstart/commerce"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// RegisterStorefrontRoutes mounts the storefront session routes and the
// back-office buyer routes on the given router.
func RegisterStorefrontRoutes[T any](app router.Router[T], opts ...StorefrontControllerOption) {

	controller := NewStorefrontController(opts...)

	app.
		Get(controller.Routes.Login,
			controller.LoginShow,
		).
		SetName("sign-in.get")

	app.
		Post(
			controller.Routes.Login,
			controller.LoginPost,
		).
		SetName("sign-in.post")

	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")

	app.Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("token-refresh.post")

	app.Get(controller.Routes.PasswordChange, controller.PasswordChangeShow).
		SetName("pwd-change.get")
	app.Post(controller.Routes.PasswordChange, controller.PasswordChangePost).
		SetName("pwd-change.post")

	app.Post(controller.Routes.Buyers, controller.BuyerCreate).
		SetName("buyers.post")
	app.Get(fmt.Sprintf("%s/:id", controller.Routes.Buyers), controller.BuyerGet).
		SetName("buyers.get")
	app.Put(fmt.Sprintf("%s/:id", controller.Routes.Buyers), controller.BuyerUpdate).
		SetName("buyers.put")
}

type StorefrontControllerRoutes struct {
	Login          string
	Logout         string
	Refresh        string
	PasswordChange string
	Buyers         string
}

type StorefrontControllerViews struct {
	Login          string
	PasswordChange string
}

type StorefrontController struct {
	Debug        bool
	Logger       Logger
	Routes       *StorefrontControllerRoutes
	Views        *StorefrontControllerViews
	Auther       HTTPSession
	Sessions     SessionOrchestrator
	Buyers       *BuyerService
	Elevated     TokenSource
	Sink         SessionSink
	ErrorHandler router.ErrorHandler
}

type StorefrontControllerOption func(*StorefrontController) *StorefrontController

func NewStorefrontController(opts ...StorefrontControllerOption) *StorefrontController {
	c := &StorefrontController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &StorefrontControllerRoutes{
			Login:          "/login",
			Logout:         "/logout",
			Refresh:        "/session/refresh",
			PasswordChange: "/account/password",
			Buyers:         "/admin/buyers",
		},
		Views: &StorefrontControllerViews{
			Login:          "login",
			PasswordChange: "password_change",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing HTTPSession in storefront controller...")
	}

	if c.Sessions == nil {
		panic("Missing SessionOrchestrator in storefront controller...")
	}

	if c.Buyers == nil {
		panic("Missing BuyerService in storefront controller...")
	}

	if c.Elevated != nil {
		c.Buyers.WithElevatedTokenSource(c.Elevated)
	}

	return c
}

// WithControllerAuther sets the cookie-aware session wrapper.
func WithControllerAuther(auther HTTPSession) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Auther = auther
		return c
	}
}

// WithControllerSessions sets the session orchestrator.
func WithControllerSessions(sessions SessionOrchestrator) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Sessions = sessions
		return c
	}
}

// WithControllerBuyers sets the buyer provisioning service.
func WithControllerBuyers(buyers *BuyerService) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Buyers = buyers
		return c
	}
}

// WithControllerElevated turns buyer creation into seeding mode: the
// source is wired into the buyer service and supporting resources are
// provisioned with its elevated token instead of the caller's.
func WithControllerElevated(source TokenSource) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Elevated = source
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Logger = logger
		return c
	}
}

// WithControllerSink sets the session event sink used by the buyer
// provisioning command.
func WithControllerSink(sink SessionSink) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Sink = sink
		return c
	}
}

func (a *StorefrontController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetRememberMe will return the remember-me opt-in
func (r LoginRequest) GetRememberMe() bool {
	return r.RememberMe
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *StorefrontController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)
	errors := map[string]string{}

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		})
	}

	if a.Debug {
		fmt.Println("======= STOREFRONT LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===============================")
	}

	if err := a.Auther.Login(ctx, payload); err != nil {
		errors["authentication"] = "Authentication Error"
		return ctx.Render(a.Views.Login, router.ViewContext{
			"errors":  errors,
			"payload": payload,
		})
	}

	redirect := a.Auther.GetRedirectOrDefault(ctx)

	return ctx.Redirect(redirect, router.StatusSeeOther)
}

func (a *StorefrontController) LogOut(ctx router.Context) error {
	destination, err := a.Auther.Logout(ctx)
	if err != nil {
		a.Logger.Error("logout error: ", "error", err)
		destination = "/"
	}
	return ctx.Redirect(destination, router.StatusTemporaryRedirect)
}

func (a *StorefrontController) RefreshPost(ctx router.Context) error {
	pair, err := a.Sessions.Refresh(ctx.Context())
	if err != nil {
		a.Logger.Error("token refresh error: ", "error", err)
		return ctx.JSON(fiber.StatusUnauthorized, router.ViewContext{
			"error": err.Error(),
		})
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"access_token": pair.AccessToken,
		"expires_in":   pair.ExpiresIn,
	})
}

func (a *StorefrontController) PasswordChangeShow(ctx router.Context) error {
	return ctx.Render(a.Views.PasswordChange, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// PasswordChangePayload holds values for a password change
type PasswordChangePayload struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r PasswordChangePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.CurrentPassword,
			validation.Required,
		),
		validation.Field(
			&r.NewPassword,
			validation.Required,
			validation.Length(10, 100),
		),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(validateStringEquals(r.NewPassword)),
		),
	)
}

func (a *StorefrontController) PasswordChangePost(ctx router.Context) error {
	errors := map[string]string{}
	payload := new(PasswordChangePayload)

	if err := ctx.Bind(payload); err != nil {
		errors["form"] = "Failed to parse form"
		a.Logger.Error("password change parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.PasswordChange, router.ViewContext{
			"errors": errors,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("password change validate payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.PasswordChange, router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		})
	}

	if err := a.Sessions.ChangePassword(ctx.Context(), payload.CurrentPassword, payload.NewPassword); err != nil {
		a.Logger.Error("password change error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error changing password",
		}).Render(a.Views.PasswordChange, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Password updated",
	}).Redirect("/", fiber.StatusSeeOther)
}

// BuyerPayload is the back-office buyer create/update body.
type BuyerPayload struct {
	ID               string `form:"id" json:"id"`
	Name             string `form:"name" json:"name"`
	Active           bool   `form:"active" json:"active"`
	DefaultCatalogID string `form:"default_catalog_id" json:"default_catalog_id"`
	MarkupPercent    int    `form:"markup_percent" json:"markup_percent"`
}

// Validate will validate the payload
func (r BuyerPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.MarkupPercent, validation.Min(0), validation.Max(100)),
	)
}

func (r BuyerPayload) toBuyer() *MarkedUpBuyer {
	return &MarkedUpBuyer{
		Buyer: &commerce.Buyer{
			ID:               r.ID,
			Name:             r.Name,
			Active:           r.Active,
			DefaultCatalogID: r.DefaultCatalogID,
		},
		Markup: &BuyerMarkup{Percent: r.MarkupPercent},
	}
}

func (a *StorefrontController) BuyerCreate(ctx router.Context) error {
	payload := new(BuyerPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("buyer create parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": err.Error(),
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("buyer create validate payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"validation": formatValidationErrors(err),
		})
	}

	if a.Debug {
		fmt.Println("======= BUYER CREATE ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===========================")
	}

	buyer := payload.toBuyer()
	token, _ := AccessTokenFromContext(ctx.Context())

	var result *MarkedUpBuyer
	req := ProvisionBuyerMessage{
		Buyer:   buyer.Buyer,
		Markup:  buyer.Markup,
		Token:   token,
		Seeding: a.Elevated != nil,
		OnResponse: func(b *MarkedUpBuyer) {
			result = b
		},
	}

	provision := NewProvisionBuyerHandler(a.Buyers).
		WithSessionSink(a.Sink).
		WithLogger(a.Logger)

	if err := provision.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("buyer create error: ", "error", err)
		return a.renderBuyerError(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, result)
}

func (a *StorefrontController) BuyerGet(ctx router.Context) error {
	buyerID := ctx.Param("id", "")
	token, _ := AccessTokenFromContext(ctx.Context())

	buyer, err := a.Buyers.Get(ctx.Context(), buyerID, token)
	if err != nil {
		a.Logger.Error("buyer get error: ", "error", err)
		return a.renderBuyerError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, buyer)
}

func (a *StorefrontController) BuyerUpdate(ctx router.Context) error {
	buyerID := ctx.Param("id", "")
	payload := new(BuyerPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("buyer update parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": err.Error(),
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("buyer update validate payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"validation": formatValidationErrors(err),
		})
	}

	token, _ := AccessTokenFromContext(ctx.Context())

	buyer, err := a.Buyers.Update(ctx.Context(), buyerID, payload.toBuyer(), token)
	if err != nil {
		a.Logger.Error("buyer update error: ", "error", err)
		return a.renderBuyerError(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, buyer)
}

func (a *StorefrontController) renderBuyerError(ctx router.Context, err error) error {
	status := fiber.StatusInternalServerError

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.Category {
		case goerrors.CategoryNotFound:
			status = fiber.StatusNotFound
		case goerrors.CategoryValidation, goerrors.CategoryBadInput:
			status = fiber.StatusBadRequest
		case goerrors.CategoryAuth:
			status = fiber.StatusUnauthorized
		}
	}

	return ctx.JSON(status, router.ViewContext{
		"error": err.Error(),
	})
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}

// validateStringEquals will check that both values match
func validateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return fmt.Errorf("values must match")
		}
		return nil
	}
}

// formatValidationErrors flattens ozzo field errors into a map keyed by
// field name.
func formatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			out[field] = ferr.Error()
		}
		return out
	}
	if err != nil {
		out["validation"] = err.Error()
	}
	return out
}
