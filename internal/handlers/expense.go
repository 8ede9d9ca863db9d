package handlers

import (
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kharcha/internal/services/expense"
	"kharcha/internal/services/parser"
	"kharcha/internal/services/speech"
	"kharcha/internal/services/wallet"
	"kharcha/internal/utils"
)

type ExpenseHandler struct {
	expenseService expense.Service
	parserService  parser.Service
	speechService  speech.Service
}

func NewExpenseHandler(expenseService expense.Service, parserService parser.Service, speechService speech.Service) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		parserService:  parserService,
		speechService:  speechService,
	}
}

// Parse turns free text into a structured candidate without persisting it.
func (h *ExpenseHandler) Parse(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	_ = claims

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		return utils.BadRequest(c, "text is required")
	}

	result, err := h.parserService.Parse(c.Context(), input.Text, time.Now().UTC())
	if err != nil {
		if errors.Is(err, parser.ErrValidation) {
			return utils.UnprocessableEntity(c, err.Error())
		}
		if errors.Is(err, parser.ErrParseFailure) {
			return utils.UnprocessableEntity(c, "Could not understand the expense description")
		}
		return utils.InternalError(c, "Failed to parse expense")
	}

	return utils.Success(c, fiber.Map{"candidate": result})
}

// Create records an expense. The body carries either free text to parse or
// the structured fields directly; structured fields win when both are present.
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Text string `json:"text"`
		expense.Input
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	in := input.Input
	if in.Amount == 0 && strings.TrimSpace(input.Text) != "" {
		result, err := h.parserService.Parse(c.Context(), input.Text, time.Now().UTC())
		if err != nil {
			if errors.Is(err, parser.ErrValidation) || errors.Is(err, parser.ErrParseFailure) {
				return utils.UnprocessableEntity(c, err.Error())
			}
			return utils.InternalError(c, "Failed to parse expense")
		}
		in = expense.Input{
			Amount:        result.Amount,
			Category:      result.Category,
			Title:         result.Title,
			Date:          result.Date,
			PaymentMethod: result.PaymentMethod,
			Notes:         in.Notes,
		}
	}

	txn, err := h.expenseService.Create(c.Context(), claims.UserID, in)
	if err != nil {
		if errors.Is(err, wallet.ErrLedgerInconsistency) {
			return ledgerAlert(c, claims.UserID, err)
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, fiber.Map{"transaction": txn})
}

func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	filter := expense.Filter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if from, err := parseDateQuery(c.Query("from")); err != nil {
		return utils.BadRequest(c, "from must be YYYY-MM-DD")
	} else if from != nil {
		filter.From = from
	}
	if to, err := parseDateQuery(c.Query("to")); err != nil {
		return utils.BadRequest(c, "to must be YYYY-MM-DD")
	} else if to != nil {
		filter.To = to
	}
	if categories := c.Query("categories"); categories != "" {
		filter.Categories = strings.Split(categories, ",")
	}
	filter.IncludeDeleted = c.QueryBool("include_deleted", false)

	txs, err := h.expenseService.List(c.Context(), claims.UserID, filter)
	if err != nil {
		return utils.InternalError(c, "Failed to list transactions")
	}
	return utils.Success(c, fiber.Map{"transactions": txs})
}

func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	txn, err := h.expenseService.Get(c.Context(), claims.UserID, id)
	if err != nil {
		if expense.IsNotFound(err) {
			return utils.NotFound(c, "Transaction not found")
		}
		return utils.InternalError(c, "Failed to fetch transaction")
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	var input expense.Input
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.expenseService.Update(c.Context(), claims.UserID, id, input)
	if err != nil {
		switch {
		case expense.IsNotFound(err):
			return utils.NotFound(c, "Transaction not found")
		case errors.Is(err, expense.ErrTransactionDeleted):
			return utils.BadRequest(c, "Transaction has been deleted")
		case errors.Is(err, wallet.ErrLedgerInconsistency):
			return ledgerAlert(c, claims.UserID, err)
		default:
			return utils.BadRequest(c, err.Error())
		}
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	if err := h.expenseService.Delete(c.Context(), claims.UserID, id); err != nil {
		switch {
		case expense.IsNotFound(err):
			return utils.NotFound(c, "Transaction not found")
		case errors.Is(err, expense.ErrTransactionDeleted):
			return utils.BadRequest(c, "Transaction already deleted")
		case errors.Is(err, wallet.ErrLedgerInconsistency):
			return ledgerAlert(c, claims.UserID, err)
		default:
			return utils.InternalError(c, "Failed to delete transaction")
		}
	}
	return utils.Success(c, fiber.Map{"message": "Transaction deleted"})
}

// Voice accepts an audio file, transcribes it, and parses the transcript into
// a candidate. Nothing is persisted.
func (h *ExpenseHandler) Voice(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	_ = claims

	file, err := c.FormFile("audio")
	if err != nil {
		return utils.BadRequest(c, "audio file is required")
	}

	src, err := file.Open()
	if err != nil {
		return utils.InternalError(c, "Failed to read audio")
	}
	defer src.Close()

	transcript, err := h.speechService.Transcribe(c.Context(), file.Filename, src)
	if err != nil {
		return utils.UnprocessableEntity(c, "Could not transcribe audio")
	}

	result, err := h.parserService.Parse(c.Context(), transcript, time.Now().UTC())
	if err != nil {
		if errors.Is(err, parser.ErrValidation) || errors.Is(err, parser.ErrParseFailure) {
			return utils.UnprocessableEntity(c, err.Error())
		}
		return utils.InternalError(c, "Failed to parse transcript")
	}

	return utils.Success(c, fiber.Map{
		"transcript": transcript,
		"candidate":  result,
	})
}

// Import ingests a CSV file of transactions. Bad rows are reported, good
// rows are committed.
func (h *ExpenseHandler) Import(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "file is required")
	}

	src, err := file.Open()
	if err != nil {
		return utils.InternalError(c, "Failed to read file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return utils.InternalError(c, "Failed to read file")
	}

	report, err := h.expenseService.ImportCSV(c.Context(), claims.UserID, data)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, fiber.Map{"report": report})
}

// ledgerAlert reports a ledger state left in doubt by a commit failure. The
// balances and the transaction record may disagree until an operator
// reconciles them, so this is raised on the operator channel, never blamed
// on the caller.
func ledgerAlert(c *fiber.Ctx, userID uint, err error) error {
	log.Printf("ALERT: ledger inconsistency (user=%d): %v", userID, err)
	return utils.InternalError(c, "Ledger state requires reconciliation")
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
