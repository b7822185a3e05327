package mcp

import (
	"database/sql"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
)

// KnownTypes are the tool groups that disabled_types may name.
var KnownTypes = []string{"quiz", "catalog", "result", "text"}

type toolEntry struct {
	name    string
	kind    string
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// tools is the registration order.
var tools = []toolEntry{
	{"quiz_questions", "quiz", questionsToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleQuestions }},
	{"quiz_recommend", "quiz", recommendToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecommend }},
	{"catalog_list", "catalog", catalogListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleCatalogList }},
	{"catalog_item", "catalog", catalogItemToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleCatalogItem }},
	{"result_fetch", "result", resultFetchToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch }},
	{"result_list", "result", resultListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleList }},
	{"result_delete", "result", resultDeleteToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete }},
	{"result_purge", "result", resultPurgeToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge }},
	{"text_linebreak", "text", lineBreakToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleLineBreak }},
}

func lookupTool(name string) (toolEntry, bool) {
	i := slices.IndexFunc(tools, func(e toolEntry) bool { return e.name == name })
	if i < 0 {
		return toolEntry{}, false
	}
	return tools[i], true
}

// AllToolNames lists every tool in registration order.
func AllToolNames() []string {
	names := make([]string, len(tools))
	for i, e := range tools {
		names[i] = e.name
	}
	return names
}

// ValidateDisabledTools returns the names that match no tool.
func ValidateDisabledTools(names []string) []string {
	unknown := []string{}
	for _, name := range names {
		if _, ok := lookupTool(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns the names that are not in KnownTypes.
func ValidateDisabledTypes(names []string) []string {
	unknown := []string{}
	for _, name := range names {
		if !slices.Contains(KnownTypes, name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool returns the group of a tool, or "" for an unknown name.
func GetTypeForTool(name string) string {
	e, _ := lookupTool(name)
	return e.kind
}

// ExpandTypesToTools returns the tools belonging to any of types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	var names []string
	for _, e := range tools {
		if slices.Contains(types, e.kind) {
			names = append(names, e.name)
		}
	}
	return names
}

// NewServer builds the "solefit" MCP server. A tool is skipped when it is
// named in cfg.DisabledTools or its group is in cfg.DisabledTypes.
func NewServer(db *sql.DB, cfg *config.Config, cat *catalog.Catalog, bank *catalog.QuestionBank, version string) *server.MCPServer {
	s := server.NewMCPServer("solefit", version, server.WithToolCapabilities(true))
	h := NewHandlers(db, cfg, cat, bank)

	for _, e := range tools {
		if slices.Contains(cfg.DisabledTools, e.name) || slices.Contains(cfg.DisabledTypes, e.kind) {
			continue
		}
		s.AddTool(e.def, e.handler(h))
	}
	return s
}

// Run serves MCP over stdio until the client disconnects.
func Run(db *sql.DB, cfg *config.Config, cat *catalog.Catalog, bank *catalog.QuestionBank, version string) error {
	return server.ServeStdio(NewServer(db, cfg, cat, bank, version))
}
