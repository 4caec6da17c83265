package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/bankops/ledgercore/internal/core/ports/services"
	"github.com/bankops/ledgercore/internal/dto"
	"github.com/bankops/ledgercore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chequeHandler handles cheque book and cheque lifecycle requests.
type chequeHandler struct {
	chequeService portssvc.ChequeSvcFacade
}

func newChequeHandler(cs portssvc.ChequeSvcFacade) *chequeHandler {
	return &chequeHandler{chequeService: cs}
}

// registerChequeRoutes registers cheque book and cheque routes. Approval,
// rejection, clearance, bouncing and voiding are staff operations.
func registerChequeRoutes(rg *gin.RouterGroup, chequeService portssvc.ChequeSvcFacade) {
	h := newChequeHandler(chequeService)

	rg.GET("/accounts/:accountNumber/eligibility", h.checkEligibility)
	rg.POST("/accounts/:accountNumber/chequebooks", h.requestChequeBook)
	rg.GET("/accounts/:accountNumber/chequebooks", h.listChequeBooks)

	books := rg.Group("/chequebooks")
	{
		books.GET("/:bookID", h.getChequeBook)
		books.POST("/:bookID/approve", middleware.RequireStaff(), h.approveChequeBook)
		books.POST("/:bookID/reject", middleware.RequireStaff(), h.rejectChequeBook)
	}

	cheques := rg.Group("/cheques")
	{
		cheques.GET("/:chequeNumber", h.getCheque)
		cheques.POST("/deposit", h.depositCheque)
		cheques.POST("/:chequeNumber/clear", middleware.RequireStaff(), h.clearCheque)
		cheques.POST("/:chequeNumber/bounce", middleware.RequireStaff(), h.bounceCheque)
		cheques.POST("/:chequeNumber/cancel", h.cancelCheque)
		cheques.POST("/:chequeNumber/void", middleware.RequireStaff(), h.voidCheque)
	}
}

func chequeNumberParam(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("chequeNumber"), 10, 64)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid cheque number"})
		return 0, false
	}
	return n, true
}

// checkEligibility evaluates cheque book eligibility for an account.
func (h *chequeHandler) checkEligibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	result, err := h.chequeService.CheckEligibility(c.Request.Context(), accountNumber)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// requestChequeBook creates a PENDING cheque book request.
func (h *chequeHandler) requestChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	book, err := h.chequeService.RequestChequeBook(c.Request.Context(), accountNumber, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, book)
}

// listChequeBooks retrieves an account's cheque books, newest first.
func (h *chequeHandler) listChequeBooks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	books, err := h.chequeService.ListChequeBooks(c.Request.Context(), accountNumber, params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chequeBooks": books})
}

// getChequeBook retrieves a book with its leaves.
func (h *chequeHandler) getChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.chequeService.GetChequeBook(c.Request.Context(), c.Param("bookID"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// approveChequeBook issues a pending book and materializes its leaves.
func (h *chequeHandler) approveChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	book, err := h.chequeService.ApproveChequeBook(c.Request.Context(), c.Param("bookID"), staffID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// rejectChequeBook rejects a pending book with a reason.
func (h *chequeHandler) rejectChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RejectChequeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.chequeService.RejectChequeBook(c.Request.Context(), c.Param("bookID"), req.Reason, staffID); err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// getCheque retrieves a cheque and its audit trail.
func (h *chequeHandler) getCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	chequeNumber, ok := chequeNumberParam(c)
	if !ok {
		return
	}

	resp, err := h.chequeService.GetChequeByNumber(c.Request.Context(), chequeNumber)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// depositCheque records presentation of an issued cheque.
func (h *chequeHandler) depositCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DepositChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cheque, err := h.chequeService.DepositCheque(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, cheque)
}

// clearCheque honors a deposited cheque. Staff only.
func (h *chequeHandler) clearCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	chequeNumber, ok := chequeNumberParam(c)
	if !ok {
		return
	}

	var req dto.ClearChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	req.ChequeNumber = chequeNumber

	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cheque, err := h.chequeService.ClearCheque(c.Request.Context(), req, staffID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, cheque)
}

// bounceCheque rejects a deposited cheque with a reason. Staff only.
func (h *chequeHandler) bounceCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	chequeNumber, ok := chequeNumberParam(c)
	if !ok {
		return
	}

	var req dto.BounceChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	req.ChequeNumber = chequeNumber

	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cheque, err := h.chequeService.BounceCheque(c.Request.Context(), req, staffID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, cheque)
}

// cancelCheque cancels an unused cheque.
func (h *chequeHandler) cancelCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	chequeNumber, ok := chequeNumberParam(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cheque, err := h.chequeService.CancelCheque(c.Request.Context(), chequeNumber, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, cheque)
}

// voidCheque voids any non-terminal cheque. Staff only.
func (h *chequeHandler) voidCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	chequeNumber, ok := chequeNumberParam(c)
	if !ok {
		return
	}

	var req dto.VoidChequeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}

	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cheque, err := h.chequeService.VoidCheque(c.Request.Context(), chequeNumber, req.Remarks, staffID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, cheque)
}
