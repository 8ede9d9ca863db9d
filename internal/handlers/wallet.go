package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kharcha/internal/services/wallet"
	"kharcha/internal/utils"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

func (h *WalletHandler) GetBalances(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balances, err := h.walletService.GetBalances(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to fetch balances")
	}
	return utils.Success(c, fiber.Map{"balances": balances})
}
