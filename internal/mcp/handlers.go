package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/linebreak"
	"github.com/hpungsan/solefit/internal/logging"
	"github.com/hpungsan/solefit/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db    *sql.DB
	cfg   *config.Config
	cat   *catalog.Catalog
	bank  *catalog.QuestionBank
	cache *linebreak.Cache
}

// NewHandlers creates a new Handlers instance with a line-break cache sized
// from cfg.
func NewHandlers(db *sql.DB, cfg *config.Config, cat *catalog.Catalog, bank *catalog.QuestionBank) *Handlers {
	return &Handlers{
		db:    db,
		cfg:   cfg,
		cat:   cat,
		bank:  bank,
		cache: linebreak.NewCache(cfg.LineBreakCacheSize),
	}
}

// Request types for JSON decoding

type recommendRequest struct {
	Answers         []catalog.Answer `json:"answers"`
	BrandPreference string           `json:"brand_preference"`
	Save            *bool            `json:"save"`
}

type catalogListRequest struct {
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

type idRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted"`
}

type listRequest struct {
	Limit          int  `json:"limit"`
	Offset         int  `json:"offset"`
	IncludeDeleted bool `json:"include_deleted"`
}

type purgeRequest struct {
	OlderThanDays *int `json:"older_than_days"`
}

type lineBreakRequest struct {
	Text          string  `json:"text"`
	MobileTarget  float64 `json:"mobile_target"`
	DesktopTarget float64 `json:"desktop_target"`
	MinTokenCount int     `json:"min_token_count"`
}

// HandleQuestions handles the quiz_questions tool.
func (h *Handlers) HandleQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Questions(h.bank))
}

// HandleRecommend handles the quiz_recommend tool.
func (h *Handlers) HandleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[recommendRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recommend(ctx, h.db, h.cat, h.bank, h.cfg, ops.RecommendInput{
		Answers:         input.Answers,
		BrandPreference: input.BrandPreference,
		Save:            input.Save,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCatalogList handles the catalog_list tool.
func (h *Handlers) HandleCatalogList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[catalogListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Catalog(h.cat, ops.CatalogInput{
		Category: input.Category,
		Brand:    input.Brand,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCatalogItem handles the catalog_item tool.
func (h *Handlers) HandleCatalogItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[idRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	item, err := ops.CatalogItem(h.cat, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(item)
}

// HandleFetch handles the result_fetch tool.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[idRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the result_list tool.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[listRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the result_delete tool.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[idRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the result_purge tool.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[purgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLineBreak handles the text_linebreak tool.
func (h *Handlers) HandleLineBreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[lineBreakRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.LineBreak(h.cache, h.cfg, ops.LineBreakInput{
		Text:          input.Text,
		MobileTarget:  input.MobileTarget,
		DesktopTarget: input.DesktopTarget,
		MinTokenCount: input.MinTokenCount,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult converts an error to an MCP error result with structured JSON.
// Wrapping context is kept in the message; the code prefix is dropped.
func errorResult(err error) *mcp.CallToolResult {
	var sErr *errors.SolefitError
	if !stderrors.As(err, &sErr) {
		sErr = errors.NewInternal(err)
	}

	message := sErr.Message
	if full := err.Error(); full != sErr.Error() {
		message = strings.Replace(full, sErr.Error(), sErr.Message, 1)
	}

	if sErr.Code == errors.ErrInternal {
		logging.Error().Err(err).Msg("tool call failed")
	}

	errObj := map[string]any{
		"code":    string(sErr.Code),
		"message": message,
		"status":  sErr.Status,
	}
	// Internal details may leak paths or SQL.
	if len(sErr.Details) > 0 && sErr.Code != errors.ErrInternal {
		errObj["details"] = sErr.Details
	}

	b, mErr := json.Marshal(map[string]any{"error": errObj})
	if mErr != nil {
		return mcp.NewToolResultError(message)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(b))},
		IsError: true,
	}
}

// successResult converts data to an MCP success result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
