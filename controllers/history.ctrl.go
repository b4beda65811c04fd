package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/0x5916/Alanpay-backend/lib/responses"
	"github.com/0x5916/Alanpay-backend/lib/service"
	"github.com/labstack/echo/v4"
)

// HistoryController : History controller struct
type HistoryController struct {
	svc *service.WalletService
}

func NewHistoryController(svc *service.WalletService) *HistoryController {
	return &HistoryController{svc: svc}
}

type HistoryItem struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponseBody struct {
	Username      string        `json:"username"`
	TotalBalance  string        `json:"total_balance"`
	HistoryMonths int           `json:"history_months"`
	Entries       []HistoryItem `json:"entries"`
	TotalCount    int           `json:"total_count"`
}

type EntryResponseBody struct {
	ID                int64     `json:"id"`
	Amount            string    `json:"amount"`
	Type              string    `json:"type"`
	Description       string    `json:"description,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	ReferenceUsername string    `json:"reference_username,omitempty"`
}

// GetHistory : Balance history Controller
func (controller *HistoryController) GetHistory(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	months := 6
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 24 {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		months = parsed
	}

	user, err := controller.svc.FindUser(c.Request().Context(), userId)
	if err != nil {
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	since := time.Now().AddDate(0, 0, -30*months)
	entries, err := controller.svc.EntriesSince(c.Request().Context(), userId, since, 0, 0)
	if err != nil {
		return err
	}
	totalCount, err := controller.svc.CountEntriesSince(c.Request().Context(), userId, since)
	if err != nil {
		return err
	}
	balance, err := controller.svc.CurrentUserBalance(c.Request().Context(), userId)
	if err != nil {
		return err
	}

	items := make([]HistoryItem, len(entries))
	for i, entry := range entries {
		items[i] = HistoryItem{
			ID:        entry.ID,
			Type:      entry.EntryType,
			Amount:    entry.Amount.StringFixed(2),
			Timestamp: entry.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, &HistoryResponseBody{
		Username:      user.Login,
		TotalBalance:  balance.StringFixed(2),
		HistoryMonths: months,
		Entries:       items,
		TotalCount:    totalCount,
	})
}

// GetEntry : Entry detail Controller
func (controller *HistoryController) GetEntry(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	entryId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	entry, err := controller.svc.GetEntry(c.Request().Context(), userId, entryId)
	if err != nil {
		c.Logger().Errorf("Get entry failed user_id:%v entry_id:%v kind:%v", userId, entryId, service.ErrorKind(err))
		resp := responses.MapDomainError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	body := &EntryResponseBody{
		ID:          entry.ID,
		Amount:      entry.Amount.StringFixed(2),
		Type:        entry.EntryType,
		Description: entry.Description,
		Timestamp:   entry.CreatedAt,
	}
	if entry.ReferenceUser != nil {
		body.ReferenceUsername = entry.ReferenceUser.Login
	}
	return c.JSON(http.StatusOK, body)
}
