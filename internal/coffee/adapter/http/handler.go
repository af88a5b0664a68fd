package http

import (
	"bytes"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/usecase"
	apperrors "coffee-store/internal/shared/errors"
	"coffee-store/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// Greeting is the body of GET /.
const Greeting = "HOT HOT HOT COFFEEEEEEE"

// DocumentHTTPHandler maps the coffee and users routes onto their usecases. Every
// handler makes exactly one usecase call and writes the store's answer as JSON.
type DocumentHTTPHandler struct {
	coffee usecase.CoffeeUsecase
	users  usecase.UserUsecase
	log    logger.Logger
}

// NewDocumentHTTPHandler creates the handler
func NewDocumentHTTPHandler(coffee usecase.CoffeeUsecase, users usecase.UserUsecase, log logger.Logger) *DocumentHTTPHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &DocumentHTTPHandler{
		coffee: coffee,
		users:  users,
		log:    log.WithComponent("http"),
	}
}

// RegisterRoutes registers the document routes on router
func (h *DocumentHTTPHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Greet)

	router.Get("/coffee", h.ListCoffee)
	router.Get("/coffee/:id", h.GetCoffee)
	router.Post("/coffee", h.CreateCoffee)
	router.Put("/coffee/:id", h.ReplaceCoffee)
	router.Delete("/coffee/:id", h.DeleteCoffee)

	router.Get("/users", h.ListUsers)
	router.Post("/users", h.CreateUser)
	router.Patch("/users", h.RecordSignIn)
	router.Delete("/users/:id", h.DeleteUser)
}

// Greet handles GET /
func (h *DocumentHTTPHandler) Greet(c *fiber.Ctx) error {
	return c.SendString(Greeting)
}

// ListCoffee handles GET /coffee
func (h *DocumentHTTPHandler) ListCoffee(c *fiber.Ctx) error {
	docs, err := h.coffee.ListCoffee(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(docs)
}

// GetCoffee handles GET /coffee/:id. An absent document is written as null.
func (h *DocumentHTTPHandler) GetCoffee(c *fiber.Ctx) error {
	doc, err := h.coffee.GetCoffee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// CreateCoffee handles POST /coffee
func (h *DocumentHTTPHandler) CreateCoffee(c *fiber.Ctx) error {
	body, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.coffee.CreateCoffee(c.UserContext(), body)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ReplaceCoffee handles PUT /coffee/:id
func (h *DocumentHTTPHandler) ReplaceCoffee(c *fiber.Ctx) error {
	body, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.coffee.ReplaceCoffee(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// DeleteCoffee handles DELETE /coffee/:id
func (h *DocumentHTTPHandler) DeleteCoffee(c *fiber.Ctx) error {
	res, err := h.coffee.DeleteCoffee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ListUsers handles GET /users
func (h *DocumentHTTPHandler) ListUsers(c *fiber.Ctx) error {
	docs, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(docs)
}

// CreateUser handles POST /users
func (h *DocumentHTTPHandler) CreateUser(c *fiber.Ctx) error {
	body, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.users.CreateUser(c.UserContext(), body)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// RecordSignIn handles PATCH /users
func (h *DocumentHTTPHandler) RecordSignIn(c *fiber.Ctx) error {
	body, err := parseDocument(c)
	if err != nil {
		return err
	}
	res, err := h.users.RecordSignIn(c.UserContext(), body)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// DeleteUser handles DELETE /users/:id
func (h *DocumentHTTPHandler) DeleteUser(c *fiber.Ctx) error {
	res, err := h.users.DeleteUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// parseDocument decodes a JSON object body. Bodies that are empty, null or not sent as
// JSON yield an empty document; malformed JSON is a 400.
func parseDocument(c *fiber.Ctx) (model.Document, error) {
	doc := model.Document{}
	if !c.Is("json") || len(bytes.TrimSpace(c.Body())) == 0 {
		return doc, nil
	}
	if err := c.BodyParser(&doc); err != nil {
		return nil, apperrors.NewInvalidBodyError(err)
	}
	if doc == nil {
		doc = model.Document{}
	}
	return doc, nil
}
