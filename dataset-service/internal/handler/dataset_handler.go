package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/eaglebank/dataseed/dataset-service/internal/repository"
	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/middleware"
	"github.com/eaglebank/dataseed/shared/models"
	"github.com/eaglebank/dataseed/shared/utils"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// DatasetCommander defines the write-side operations used by DatasetHandler.
type DatasetCommander interface {
	Regenerate(context.Context, cqrs.RegenerateDatasetCommand) (*models.DatasetSummary, error)
}

// DatasetQuerier defines the read-side operations used by DatasetHandler.
type DatasetQuerier interface {
	GetProfile(context.Context, cqrs.GetProfileQuery) (*models.ProfileView, error)
	GetProfilePicture(context.Context, cqrs.GetProfilePictureQuery) ([]byte, error)
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.AccountView, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.AccountView, error)
	GetTransaction(context.Context, cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

type DatasetHandler struct {
	commands DatasetCommander
	queries  DatasetQuerier
}

type ListAccountsResponse struct {
	Accounts []models.AccountView `json:"accounts"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewDatasetHandler(commands DatasetCommander, queries DatasetQuerier) *DatasetHandler {
	return &DatasetHandler{commands: commands, queries: queries}
}

func (h *DatasetHandler) Regenerate(c *gin.Context) {
	username, _ := middleware.GetUsername(c)
	summary, err := h.commands.Regenerate(c.Request.Context(), cqrs.RegenerateDatasetCommand{RequestedBy: username})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to regenerate dataset")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DatasetHandler) GetProfile(c *gin.Context) {
	profileID, ok := pathID(c, "profileId", "Invalid profile id")
	if !ok {
		return
	}
	view, err := h.queries.GetProfile(c.Request.Context(), cqrs.GetProfileQuery{ProfileID: profileID})
	if err != nil {
		respondWithReadError(c, err, "Profile not found", "Failed to get profile")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetProfilePicture serves the stored bytes with a sniffed content type.
func (h *DatasetHandler) GetProfilePicture(c *gin.Context) {
	profileID, ok := pathID(c, "profileId", "Invalid profile id")
	if !ok {
		return
	}
	picture, err := h.queries.GetProfilePicture(c.Request.Context(), cqrs.GetProfilePictureQuery{ProfileID: profileID})
	if err != nil {
		respondWithReadError(c, err, "Picture not found", "Failed to get picture")
		return
	}
	c.Data(http.StatusOK, mimetype.Detect(picture).String(), picture)
}

// ListAccounts lists every account, or those of one owner with ?profileId=.
func (h *DatasetHandler) ListAccounts(c *gin.Context) {
	var q cqrs.ListAccountsQuery
	if raw, present := c.GetQuery("profileId"); present {
		profileID, err := utils.ParseID(raw)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid profile id")
			return
		}
		q.ProfileID = &profileID
	}
	accounts, err := h.queries.ListAccounts(c.Request.Context(), q)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: accounts})
}

func (h *DatasetHandler) GetAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account id")
	if !ok {
		return
	}
	view, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{AccountID: accountID})
	if err != nil {
		respondWithReadError(c, err, "Account not found", "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DatasetHandler) ListAccountTransactions(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account id")
	if !ok {
		return
	}
	h.listTransactions(c, cqrs.ListTransactionsQuery{AccountID: &accountID})
}

func (h *DatasetHandler) ListTransactions(c *gin.Context) {
	h.listTransactions(c, cqrs.ListTransactionsQuery{})
}

func (h *DatasetHandler) GetTransaction(c *gin.Context) {
	transactionID, ok := pathID(c, "transactionId", "Invalid transaction id")
	if !ok {
		return
	}
	view, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{TransactionID: transactionID})
	if err != nil {
		respondWithReadError(c, err, "Transaction not found", "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DatasetHandler) listTransactions(c *gin.Context, q cqrs.ListTransactionsQuery) {
	transactions, err := h.queries.ListTransactions(c.Request.Context(), q)
	if err != nil {
		respondWithReadError(c, err, "Account not found", "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: transactions})
}

func pathID(c *gin.Context, param, invalidMessage string) (int, bool) {
	id, err := utils.ParseID(c.Param(param))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, invalidMessage)
		return 0, false
	}
	return id, true
}

func respondWithReadError(c *gin.Context, err error, notFoundMessage, failureMessage string) {
	if errors.Is(err, repository.ErrNotFound) {
		middleware.RespondWithError(c, http.StatusNotFound, notFoundMessage)
		return
	}
	middleware.RespondWithError(c, http.StatusInternalServerError, failureMessage)
}
