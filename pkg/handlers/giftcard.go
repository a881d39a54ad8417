package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/medreza/giftcard-validation-service/pkg/models"
	"github.com/medreza/giftcard-validation-service/pkg/repository"
	"github.com/sirupsen/logrus"
)

type GiftCardHandler struct {
	repo *repository.GiftCardRepository
}

func NewGiftCardHandler(repo *repository.GiftCardRepository) *GiftCardHandler {
	return &GiftCardHandler{repo: repo}
}

// Login only confirms credentials; the admin middleware has already checked them.
func (h *GiftCardHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Login successful"})
}

func (h *GiftCardHandler) GetPrice(c *gin.Context) {
	c.JSON(http.StatusOK, models.PriceResponse{Success: true, Price: h.repo.GetPrice()})
}

func (h *GiftCardHandler) SetGlobalPrice(c *gin.Context) {
	var req models.SetGlobalPriceRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		logrus.WithField("error", err).Warn("SetGlobalPrice: Invalid request body")
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount == nil {
		logrus.Warn("SetGlobalPrice: Amount is required")
		fail(c, http.StatusBadRequest, repository.ErrInvalidAmount.Error())
		return
	}

	price, err := h.repo.SetGlobalPrice(*req.Amount, req.Currency)
	if err != nil {
		log := logrus.WithFields(logrus.Fields{
			"amount":   *req.Amount,
			"currency": req.Currency,
		})
		switch {
		case errors.Is(err, repository.ErrInvalidAmount), errors.Is(err, repository.ErrInvalidCurrency):
			log.WithField("reason", err.Error()).Warn("SetGlobalPrice: Invalid price")
			fail(c, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("SetGlobalPrice: Failed to set price")
			fail(c, http.StatusInternalServerError, "Failed to update price")
		}
		return
	}

	c.JSON(http.StatusOK, models.PriceResponse{
		Success: true,
		Message: "Price updated successfully",
		Price:   &price,
	})
}

func (h *GiftCardHandler) ValidateCard(c *gin.Context) {
	var req models.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("ValidateCard: Invalid request body")
		fail(c, http.StatusBadRequest, "Gift card code is required")
		return
	}

	card, globalPrice, err := h.repo.Validate(req.Code)
	if err != nil {
		log := logrus.WithField("code", req.Code)
		switch {
		case errors.Is(err, repository.ErrInvalidFormat):
			log.Warn("ValidateCard: Invalid code format")
			fail(c, http.StatusBadRequest, "Invalid gift card code format")
		default:
			log.WithError(err).Error("ValidateCard: Failed to validate card")
			fail(c, http.StatusInternalServerError, "Failed to validate gift card")
		}
		return
	}

	c.JSON(http.StatusOK, models.ValidateResponse{
		Success:     true,
		Card:        card,
		GlobalPrice: globalPrice,
	})
}

func (h *GiftCardHandler) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, models.CardListResponse{Success: true, Cards: h.repo.GetAll()})
}

func (h *GiftCardHandler) UpdateCardStatus(c *gin.Context) {
	var req models.SetCardStatusRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		logrus.WithField("error", err).Warn("UpdateCardStatus: Invalid request body")
		fail(c, http.StatusBadRequest, "Code and status are required")
		return
	}

	card, err := h.repo.SetStatus(req.Code, models.CardStatus(req.Status))
	if err != nil {
		h.cardError(c, "UpdateCardStatus", err, logrus.Fields{"code": req.Code, "status": req.Status})
		return
	}

	c.JSON(http.StatusOK, models.CardResponse{
		Success: true,
		Message: "Card status updated successfully",
		Card:    card,
	})
}

func (h *GiftCardHandler) UpdateCardPrice(c *gin.Context) {
	var req models.SetCardPriceRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		logrus.WithField("error", err).Warn("UpdateCardPrice: Invalid request body")
		fail(c, http.StatusBadRequest, "Code and amount are required")
		return
	}
	if req.Amount == nil {
		logrus.WithField("code", req.Code).Warn("UpdateCardPrice: Amount is required")
		fail(c, http.StatusBadRequest, repository.ErrInvalidAmount.Error())
		return
	}

	card, err := h.repo.SetCardPrice(req.Code, *req.Amount)
	if err != nil {
		h.cardError(c, "UpdateCardPrice", err, logrus.Fields{"code": req.Code, "amount": *req.Amount})
		return
	}

	c.JSON(http.StatusOK, models.CardResponse{
		Success: true,
		Message: "Card price updated successfully",
		Card:    card,
	})
}

func (h *GiftCardHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatsResponse{Success: true, Stats: h.repo.Stats()})
}

func (h *GiftCardHandler) cardError(c *gin.Context, op string, err error, fields logrus.Fields) {
	log := logrus.WithFields(fields)
	switch {
	case errors.Is(err, repository.ErrCardNotFound):
		log.Warn(op + ": Gift card not found")
		fail(c, http.StatusNotFound, "Gift card not found")
	case errors.Is(err, repository.ErrInvalidStatus), errors.Is(err, repository.ErrInvalidAmount):
		log.WithField("reason", err.Error()).Warn(op + ": Invalid input")
		fail(c, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Error(op + ": Failed to update card")
		fail(c, http.StatusInternalServerError, "Failed to update gift card")
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, models.MessageResponse{Success: false, Message: message})
}
