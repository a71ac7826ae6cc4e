package api

import (
	"errors"
	"fmt"
	"pbasc-assistant/internal/domain/entity"
	"pbasc-assistant/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	suggestionSentMessage   = "Thank you! Your suggestion has been sent."
	suggestionFailedMessage = "Failed to send the suggestion"
	unexpectedErrorMessage  = "An unexpected error occurred"
)

type RelayHandler struct {
	orchestrator *usecase.Orchestrator
	logger       *zap.Logger
}

func NewRelayHandler(orch *usecase.Orchestrator, logger *zap.Logger) *RelayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelayHandler{orchestrator: orch, logger: logger}
}

func (h *RelayHandler) HandleIndex(c *fiber.Ctx) error {
	return c.Render(indexTemplate, fiber.Map{})
}

func (h *RelayHandler) HandleSuggestion(c *fiber.Ctx) error {
	var req entity.SuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(entity.SuggestionReply{Success: false, Message: "invalid request body"})
	}

	if err := h.orchestrator.Suggest(c.UserContext(), req); err != nil {
		h.logger.Error("error in submitting suggestion", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(entity.SuggestionReply{
			Success: false,
			Message: fmt.Sprintf("%s: %s", suggestionFailedMessage, causeText(err)),
		})
	}

	return c.Status(fiber.StatusOK).JSON(entity.SuggestionReply{Success: true, Message: suggestionSentMessage})
}

func (h *RelayHandler) HandleChat(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(entity.ErrorReply{Error: "invalid request body"})
	}

	resp, err := h.orchestrator.Chat(c.UserContext(), c.IP(), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *RelayHandler) HandleImage(c *fiber.Ctx) error {
	var req entity.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(entity.ErrorReply{Error: "invalid request body"})
	}

	resp, err := h.orchestrator.Imagine(c.UserContext(), c.IP(), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// writeError maps a relay failure onto the {error, details} envelope.
func (h *RelayHandler) writeError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("relay failed", zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}

	var re *entity.RelayError
	if errors.As(err, &re) {
		return c.Status(status).JSON(entity.ErrorReply{Error: re.Message, Details: re.Details})
	}
	return c.Status(status).JSON(entity.ErrorReply{Error: unexpectedErrorMessage, Details: err.Error()})
}

// StatusFor maps a relay error kind to its HTTP status.
func StatusFor(err error) int {
	switch entity.KindOf(err) {
	case entity.KindInvalidInput:
		return fiber.StatusBadRequest
	case entity.KindRateLimited:
		return fiber.StatusTooManyRequests
	case entity.KindMalformedUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// causeText is the underlying failure without the relay's own prefix.
func causeText(err error) string {
	var re *entity.RelayError
	if errors.As(err, &re) {
		if re.Err != nil {
			return re.Err.Error()
		}
		return re.Message
	}
	return err.Error()
}
